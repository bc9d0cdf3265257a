// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernel wires every collaborator package (quantity, modl, zone,
// hydr, thermal, schedule, integrate, outmgr, klog) into one runnable
// simulation, following spec §5's construction-order stage lifecycle:
// simulation-parameter -> climate -> schedules -> zones -> constructions
// -> networks -> outputs, torn down in reverse. Nothing in here
// implements domain physics; it only assembles the objects the other
// packages already define.
package kernel

import (
	"github.com/cpmech/gosl/chk"
	"github.com/hirseboy/SIM-VICUS-sub000/hydr"
	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/integrate"
	"github.com/hirseboy/SIM-VICUS-sub000/klog"
	"github.com/hirseboy/SIM-VICUS-sub000/modl"
	"github.com/hirseboy/SIM-VICUS-sub000/outmgr"
	"github.com/hirseboy/SIM-VICUS-sub000/schedule"
	"github.com/hirseboy/SIM-VICUS-sub000/thermal"
	"github.com/hirseboy/SIM-VICUS-sub000/zone"
)

// network model ids (spec GLOSSARY "Reference-type"): distinct from
// every network element id, which is a per-component identity nested
// under one of these two network identities.
const (
	hydrNetworkId    uint = 1
	thermalNetworkId uint = 2

	defaultNetworkStartTemperature = 293.15 // K, used when no zone gives a better guess
)

// Simulation owns every constructed model object, the assembled
// dependency graph, the integrator driver and the output/log
// collaborators for one run (spec §5).
type Simulation struct {
	proj *inp.Simulation

	builder *modl.Builder
	graph   *modl.Graph
	sv      *modl.StateVector
	driver  *integrate.Driver

	zones      map[uint]*zone.Zone
	hydrNet    *hydr.Network
	thermalNet *thermal.Network
	schedules  []*schedule.Schedules

	outputs  *outmgr.Manager
	log      *klog.Logger
	progress *klog.ProgressLog
	progRec  *progressRecorder

	dirout string
}

// New assembles a runnable Simulation from a validated project
// description. climate may be nil: reading a weather file is out of
// scope (spec §1 Non-goals), but a caller that already loaded one may
// pass it in to be wired as any other TimeDependent producer.
func New(proj *inp.Simulation, climate *schedule.Climate, dirout string, restart bool, workers int) (*Simulation, error) {
	s := &Simulation{proj: proj, zones: make(map[uint]*zone.Zone), dirout: dirout}

	log, err := klog.New(dirout, restart)
	if err != nil {
		return nil, err
	}
	s.log = log
	progress, err := klog.NewProgressLog(dirout, restart)
	if err != nil {
		return nil, err
	}
	s.progress = progress

	var models []modl.AbstractModel
	var stateDeps []modl.AbstractStateDependency
	var timeDependent []modl.TimeDependent
	var stateConsumers []modl.StateConsumer
	var stepCompleters []modl.StepCompleter

	if climate != nil {
		models = append(models, climate)
		timeDependent = append(timeDependent, climate)
	}

	schedules, schedSet, err := buildSchedules(proj.Schedules, proj.Functions)
	if err != nil {
		return nil, chk.Err("kernel: building schedules: %v", err)
	}
	s.schedules = schedules
	for _, sch := range schedules {
		models = append(models, sch)
		timeDependent = append(timeDependent, sch)
	}

	zoneThermalTargets := zoneThermalElements(proj)

	for _, zd := range proj.Zones {
		nThermal := len(zoneThermalTargets[zd.Id])
		nCO2 := 0
		if proj.Data.EnableCO2 && zd.CO2Source != nil {
			nCO2 = 1
		}
		z := zone.New(zd, proj.Data.EnableMoisture, proj.Data.EnableCO2, nThermal, 0, nCO2)
		s.zones[zd.Id] = z
		models = append(models, z)
		stateDeps = append(stateDeps, z)
		stateConsumers = append(stateConsumers, z)

		if nCO2 > 0 {
			co2 := zone.NewCO2Model(zd.Id, zd.Id, zd.CO2Source.ScheduleId, zd.CO2Source.VentilationRate, zd.CO2Source.OutsideCO2)
			models = append(models, co2)
			stateDeps = append(stateDeps, co2)
		}
	}

	if proj.Network != nil {
		hn, err := hydr.New(hydrNetworkId, *proj.Network)
		if err != nil {
			return nil, chk.Err("kernel: building hydraulic network: %v", err)
		}
		s.hydrNet = hn
		models = append(models, hn)
		stateDeps = append(stateDeps, hn)

		tn, err := thermal.New(thermalNetworkId, *proj.Network)
		if err != nil {
			return nil, chk.Err("kernel: building thermal network: %v", err)
		}
		tn.SetHydraulicNetworkId(hydrNetworkId)
		tn.SetInitialTemperature(networkStartTemperature(proj))
		s.thermalNet = tn
		models = append(models, tn)
		stateDeps = append(stateDeps, tn)
		stateConsumers = append(stateConsumers, tn)
	}

	builder := modl.NewBuilder()
	builder.FMIImport = schedule.NewFMIImport()
	if schedSet != nil {
		builder.Schedules = schedSet
	}
	if err := builder.Publish(models); err != nil {
		return nil, chk.Err("kernel: publish phase: %v", err)
	}
	if err := builder.Resolve(stateDeps); err != nil {
		return nil, chk.Err("kernel: resolve phase: %v", err)
	}
	s.builder = builder

	if err := s.bindZoneLoads(zoneThermalTargets); err != nil {
		return nil, err
	}

	s.graph = modl.NewGraph(models, builder.Edges)
	s.sv = modl.NewStateVector(stateConsumers)

	outLog := s.log.Component("outmgr")
	outputs, err := outmgr.New(dirout, proj.Output, builder.Lookup, restart, outLog.Warnf)
	if err != nil {
		return nil, chk.Err("kernel: building output manager: %v", err)
	}
	s.outputs = outputs
	stepCompleters = append(stepCompleters, outputs)
	sinks := []integrate.OutputSink{outputs}

	progRec := &progressRecorder{log: s.progress}
	stepCompleters = append(stepCompleters, progRec)
	s.progRec = progRec

	s.driver = integrate.NewDriver(s.graph, s.sv, timeDependent, stepCompleters, sinks, proj.Solver, workers)
	progRec.driver = s.driver

	return s, nil
}

// networkStartTemperature picks a reasonable network seed temperature:
// the first Active zone's initial temperature when one exists, else a
// fixed room-temperature default.
func networkStartTemperature(proj *inp.Simulation) float64 {
	for _, z := range proj.Zones {
		if z.Type == "Active" {
			return z.InitialTemperature
		}
	}
	return defaultNetworkStartTemperature
}

// Run drives the integrator from the project's start time to its end
// time (spec §4.3, §5). stop is polled between steps for cooperative
// cancellation.
func (s *Simulation) Run(stop integrate.StopSignal) error {
	s.driver.SetTime(s.proj.Data.StartTime)
	s.log.Infof("starting run: t=%v to %v", s.proj.Data.StartTime, s.proj.Data.EndTime)
	if err := s.driver.Run(s.proj.Data.EndTime, stop); err != nil {
		s.log.Errorf("run aborted: %v", err)
		return err
	}
	s.log.Successf("run complete: %d accepted steps, %d rejected, %d Newton iterations",
		s.driver.Stats.AcceptedSteps, s.driver.Stats.RejectedSteps, s.driver.Stats.NewtonIters)
	return nil
}

// Stats exposes the integrator's step counters for the --step-stats CLI
// surface (spec §6).
func (s *Simulation) Stats() integrate.StepStats { return s.driver.Stats }

// WriteReferenceList dumps every resolvable result to var/, independent
// of whether any output definition selected it (spec §6). Used by the
// --test-init CLI mode: construction alone already performs every wiring
// step, so this is "construct, dump the reference list, stop".
func (s *Simulation) WriteReferenceList() error {
	published := s.builder.Published()
	entries := make([]outmgr.ReferenceEntry, 0, len(published))
	for _, p := range published {
		entries = append(entries, outmgr.ReferenceEntry{
			RefType: p.RefType.String(), Id: p.Id, Name: p.Name, Unit: p.Desc.Unit, Description: p.Desc.Description,
		})
	}
	return outmgr.WriteReferenceList(s.dirout, entries)
}

// Close tears every collaborator down in reverse construction order
// (spec §5: outputs, then networks/schedules have nothing to release,
// then the logger last so teardown itself is still logged).
func (s *Simulation) Close() error {
	var first error
	if s.outputs != nil {
		if err := s.outputs.Close(); err != nil && first == nil {
			first = err
		}
	}
	if err := s.progress.Close(); err != nil && first == nil {
		first = err
	}
	if err := s.log.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
