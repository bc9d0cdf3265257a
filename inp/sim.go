// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inp holds the project description the kernel consumes: plain
// JSON-tagged structs for simulation parameters, solver settings, zones,
// the hydraulic network, and outputs. Reading the project file off disk
// is an external responsibility; this package only defines the shape,
// the defaults, and the validation rules.
package inp

import (
	"encoding/json"
	"math"

	"github.com/cpmech/gosl/chk"
)

// Data holds the top-level simulation description (spec §1/§6).
type Data struct {
	Desc       string  `json:"desc"`       // free-text description
	DirOut     string  `json:"dirout"`     // output directory; e.g. var/results
	StartTime  float64 `json:"starttime"`  // simulation start time, seconds
	EndTime    float64 `json:"endtime"`    // simulation end time, seconds
	TimeUnit   string  `json:"timeunit"`   // unit used when reporting t in outputs; e.g. "h", "d"
	EnableMoisture bool `json:"enablemoisture"` // zones carry a second moisture state
	EnableCO2  bool    `json:"enableco2"`  // zones carry a third CO2 state (supplemented feature, see SPEC_FULL.md §4.5)
}

// SolverData holds the integrator/LES/preconditioner choices and
// tolerances of spec §4.3. Field names mirror the CLI flags of §6.
type SolverData struct {
	Integrator string `json:"integrator"` // "ExplicitEuler", "ImplicitEuler", "BDF"
	LES        string `json:"les"`        // "Dense", "KLU", "GMRES", "BiCGStab"
	KrylovDim  int    `json:"krylovdim"`  // max Krylov subspace dimension; only for GMRES/BiCGStab
	Precond    string `json:"precond"`    // "None", "ILU", "ILUT"
	ILUFill    int    `json:"ilufill"`    // fill level, ILUT only

	AbsTol                   float64 `json:"abstol"`
	RelTol                   float64 `json:"reltol"`
	DiscStep                 float64 `json:"discstep"`                 // Jacobian finite-difference step
	IterativeSolverConvCoeff float64 `json:"iterativesolverconvcoeff"` // tolerance of the GMRES/BiCGStab linear solvers; the hydraulic Newton does not read it (fixed hydr.newtonTol)
	NonlinearConvCoeff       float64 `json:"nonlinearconvcoeff"`       // implicit-Euler Newton convergence (norm of the step residual)
	InitialStep              float64 `json:"initialstep"`

	MaxRetries int `json:"maxretries"` // implicit-Euler retry budget: consecutive rejected steps before Abort
}

// SetDefault fills in the GMRES+ILU default of spec §4.3 when the
// integrator is not explicit and no linear solver was chosen.
func (o *SolverData) SetDefault() {
	if o.Integrator == "" {
		o.Integrator = "ImplicitEuler"
	}
	if o.Integrator != "ExplicitEuler" && o.LES == "" {
		o.LES = "GMRES"
		if o.Precond == "" {
			o.Precond = "ILU"
		}
	}
	if o.KrylovDim == 0 {
		o.KrylovDim = 30
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = 5
	}
}

// Validate enforces the mandatory-parameter rule of spec §4.3: every
// listed quantity must be strictly positive.
func (o *SolverData) Validate() error {
	checks := []struct {
		name string
		val  float64
	}{
		{"abstol", o.AbsTol},
		{"reltol", o.RelTol},
		{"discstep", o.DiscStep},
		{"iterativesolverconvcoeff", o.IterativeSolverConvCoeff},
		{"nonlinearconvcoeff", o.NonlinearConvCoeff},
		{"initialstep", o.InitialStep},
	}
	for _, c := range checks {
		if nonPositive(c.val) {
			return chk.Err("solver parameter %q must be > 0, got %v", c.name, c.val)
		}
	}
	if (o.LES == "GMRES" || o.LES == "BiCGStab") && o.KrylovDim <= 0 {
		return chk.Err("solver parameter %q must be > 0 for LES=%q, got %d", "krylovdim", o.LES, o.KrylovDim)
	}
	switch o.Integrator {
	case "ExplicitEuler", "ImplicitEuler", "BDF":
	default:
		return chk.Err("unknown integrator %q", o.Integrator)
	}
	switch o.LES {
	case "", "Dense", "KLU", "GMRES", "BiCGStab":
	default:
		return chk.Err("unknown linear solver %q", o.LES)
	}
	switch o.Precond {
	case "", "None", "ILU", "ILUT":
	default:
		return chk.Err("unknown preconditioner %q", o.Precond)
	}
	return nil
}

// ZoneData holds one zone's description (spec §4.5's air-balance inputs
// and SPEC_FULL.md §4.4's zone-balance supplement).
type ZoneData struct {
	Id          uint    `json:"id"`
	Type        string  `json:"type"` // "Active", "Constant", "Ground"
	DisplayName string  `json:"displayname"`
	Volume      float64 `json:"volume"`      // m3
	InitialTemperature float64 `json:"initialtemperature"` // K
	ConstantTemperature float64 `json:"constanttemperature"` // K, Type=="Constant" only
	CO2Source   *CO2SourceData `json:"co2source"` // Data.EnableCO2 only, SPEC_FULL.md §4 item 5
}

// CO2SourceData configures a zone's optional zone.CO2Model (SPEC_FULL.md
// §4 item 5): a constant generation rate read from a schedule plus a
// ventilation exchange with outside air.
type CO2SourceData struct {
	ScheduleId      uint    `json:"scheduleid"`      // generation-rate schedule, kg/s; 0 => no generation term
	VentilationRate float64 `json:"ventilationrate"` // m3/s exchanged with outside air
	OutsideCO2      float64 `json:"outsideco2"`      // kg/kg, constant outside concentration
}

// Validate checks the invariants a zone must satisfy regardless of type.
func (z *ZoneData) Validate() error {
	switch z.Type {
	case "Active", "Constant", "Ground":
	default:
		return chk.Err("zone %d: unknown type %q", z.Id, z.Type)
	}
	if z.Type == "Active" && z.Volume <= 0 {
		return chk.Err("zone %d: volume must be > 0 for an Active zone", z.Id)
	}
	return nil
}

// FluidData holds the constant fluid properties used by the hydraulic
// and thermal network solvers (spec §4.4/§4.5).
type FluidData struct {
	Name              string  `json:"name"`
	Density           float64 `json:"density"`           // kg/m3
	KinematicViscosity float64 `json:"kinematicviscosity"` // m2/s, at reference temperature
	HeatCapacity      float64 `json:"heatcapacity"`      // J/(kg.K)
	ThermalConductivity float64 `json:"thermalconductivity"` // W/(m.K), thermal-pipe Nusselt correlations
	ReferenceTemperature float64 `json:"referencetemperature"` // K
}

// PipePropertiesData holds geometric/material pipe parameters (spec
// §4.4 "pipe-properties").
type PipePropertiesData struct {
	Id               uint    `json:"id"`
	DiameterInner    float64 `json:"diameterinner"`    // m
	Roughness        float64 `json:"roughness"`        // m
	Length           float64 `json:"length"`           // m
	NParallel        int     `json:"nparallel"`        // parallel pipe count, default 1
	UValue           float64 `json:"uvalue"`            // W/(m2.K), external heat loss
	DiscretizationCells int  `json:"discretizationcells"` // thermal pipe cell count, 0 => static single-cell
}

// ControllerData holds one control element (spec §4.4 "Controllers").
type ControllerData struct {
	Type               string  `json:"type"`               // "P", "PI", "OnOff"
	ControlledProperty string  `json:"controlledproperty"` // "MassFlux", "TemperatureDifference", "TemperatureDifferenceOfFollowingElement", "ThermostatValue"
	Setpoint           float64 `json:"setpoint"`
	Kp                 float64 `json:"kp"`
	MaximumControllerResultValue float64 `json:"maximumcontrollerresultvalue"`
	TargetZoneId       uint    `json:"targetzoneid"` // zone read for ThermostatValue/TemperatureDifference, 0 if unused
}

// Validate rejects the explicitly unimplemented PI controller (spec
// §4.4: "must signal unimplemented-fatal if configured").
func (c *ControllerData) Validate() error {
	switch c.Type {
	case "P", "OnOff":
	case "PI":
		return chk.Err("PI controller is not implemented; configure a P controller instead")
	default:
		return chk.Err("unknown controller type %q", c.Type)
	}
	switch c.ControlledProperty {
	case "MassFlux", "TemperatureDifference", "TemperatureDifferenceOfFollowingElement", "ThermostatValue":
	default:
		return chk.Err("unknown controlled property %q", c.ControlledProperty)
	}
	return nil
}

// HeatExchangeData describes how a thermal element's boundary heat flux
// is computed (spec §4.5, and SPEC_FULL.md §4.2's compatibility matrix).
type HeatExchangeData struct {
	Type       string  `json:"type"` // "None", "Constant", "Spline", "Zone", "Condenser", "Evaporator"
	// Value's unit depends on the owning component: an ambient
	// temperature in K for a Pipe (spec §4.5's UA-driven drop needs a
	// temperature, not a flux), a heat flow in W for every other
	// component type (HeatExchanger, PressureLossElement/ControlledValve
	// "heat loss" variant).
	Value      float64 `json:"value"`
	SplineName string  `json:"splinename"` // Type=="Spline", display/debug only
	ScheduleId uint     `json:"scheduleid"` // Type=="Spline": model-graph id of the wrapping schedule
	ZoneId     uint    `json:"zoneid"` // Type=="Zone"
	ZoneUAValue float64 `json:"zoneuavalue"` // Type=="Zone", W/K transfer coefficient to the zone air temperature
}

// NetworkElementData holds one hydraulic element: its topology, its
// component (model) parameters, and its optional pipe/controller/heat
// exchange attachments (spec §3 "Hydraulic network graph").
type NetworkElementData struct {
	Id             uint                `json:"id"`
	InletNodeId    uint                `json:"inletnodeid"`
	OutletNodeId   uint                `json:"outletnodeid"`
	ComponentType  string              `json:"componenttype"` // "Pipe", "PressureLossElement", "ConstantPressurePump", "ControlledPump", "HeatExchanger", "HeatPumpIdealCarnot", "ControlledValve", "IdealHeaterCooler"
	Zeta           float64             `json:"zeta"`          // PressureLossElement
	Diameter       float64             `json:"diameter"`      // PressureLossElement, m
	PressureHead   float64             `json:"pressurehead"`  // ConstantPressurePump
	PressureHeadScheduleId uint        `json:"pressureheadscheduleid"` // ConstantPressurePump, 0 if fixed
	DesignMassFlux float64             `json:"designmassflux"`
	PipePropertiesId uint              `json:"pipepropertiesid"`
	Controller     *ControllerData     `json:"controller"`
	HeatExchange   *HeatExchangeData   `json:"heatexchange"`

	PumpEfficiency           float64 `json:"pumpefficiency"`           // ConstantPressurePump/ControlledPump, 0 => no loss modelled (1)
	CarnotEfficiency         float64 `json:"carnotefficiency"`         // HeatPumpIdealCarnot, fraction of ideal Carnot COP, 0 => 1
	MaxHeatingPower          float64 `json:"maxheatingpower"`          // HeatPumpIdealCarnot, W, 0 => unbounded
	SupplyTemperatureSetpoint float64 `json:"supplytemperaturesetpoint"` // IdealHeaterCooler, K
	SourceElementId          uint    `json:"sourceelementid"`          // HeatPumpIdealCarnot, the network element on the evaporator/source side, 0 if unbound
}

// NetworkNodeData holds one hydraulic node (spec §3).
type NetworkNodeData struct {
	Id        uint `json:"id"`
	Reference bool `json:"reference"` // fixed-pressure node
}

// HydraulicNetworkData holds the whole attached fluid network.
type HydraulicNetworkData struct {
	Fluid          FluidData              `json:"fluid"`
	Nodes          []NetworkNodeData      `json:"nodes"`
	Elements       []NetworkElementData   `json:"elements"`
	PipeProperties []PipePropertiesData   `json:"pipeproperties"`
}

// Validate checks reference-node uniqueness and controller legality.
func (h *HydraulicNetworkData) Validate() error {
	nref := 0
	for _, n := range h.Nodes {
		if n.Reference {
			nref++
		}
	}
	if len(h.Nodes) > 0 && nref != 1 {
		return chk.Err("hydraulic network must have exactly one reference node, found %d", nref)
	}
	for _, e := range h.Elements {
		if e.Controller != nil {
			if err := e.Controller.Validate(); err != nil {
				return chk.Err("network element %d: %v", e.Id, err)
			}
		}
	}
	return nil
}

// OutputGridData holds one output grid's sampling intervals (spec §3
// "Output grid").
type OutputGridData struct {
	Name      string              `json:"name"`
	Intervals []OutputIntervalData `json:"intervals"`
}

// OutputIntervalData is one {start, end?, stepSize} entry; End == 0
// means "runs to the simulation end time".
type OutputIntervalData struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	StepSize float64 `json:"stepsize"`
}

// OutputDefinitionData names one quantity to stream and which grid
// drives it (spec §4.6).
type OutputDefinitionData struct {
	GridName     string `json:"gridname"`
	RefType      string `json:"reftype"` // quantity.RefType.String()
	Id           uint   `json:"id"`
	QuantityName string `json:"quantityname"`
	Index        *int   `json:"index"` // nil (or omitted) selects a scalar result; set to target one network element's vector result
	Mode         string `json:"mode"`  // "Instantaneous", "TimeAverage", "TimeIntegral"
}

// LookupIndex returns the resolved lookup index: -1 for a scalar
// result, or the explicit per-element index the project file gave.
func (d OutputDefinitionData) LookupIndex() int {
	if d.Index == nil {
		return -1
	}
	return *d.Index
}

// OutputData holds the whole output-manager configuration.
type OutputData struct {
	Grids       []OutputGridData       `json:"grids"`
	Definitions []OutputDefinitionData `json:"definitions"`
}

// ScheduleDefData names one model-graph schedule wrapper to build from
// the project's function table: Function is looked up in Functions,
// and the resulting schedule.Schedules instance publishes that
// function's value under the quantity name As, at (RefSchedule, Id) —
// decoupling the project file from any one consumer's expected literal
// quantity name (e.g. a heat-exchange spline wants "HeatExchangeValue",
// a scheduled pump head wants "PressureHead").
type ScheduleDefData struct {
	Id       uint   `json:"id"`
	Function string `json:"function"`
	As       string `json:"as"`
}

// Simulation holds everything the kernel needs to construct a run (spec
// §3's lifecycle: simulation-parameter -> climate -> schedules -> zones
// -> constructions -> networks -> outputs).
type Simulation struct {
	Data      Data                  `json:"data"`
	Solver    SolverData            `json:"solver"`
	Functions FuncsData             `json:"functions"`
	Schedules []ScheduleDefData     `json:"schedules"`
	Zones     []ZoneData            `json:"zones"`
	Network   *HydraulicNetworkData `json:"network"`
	Output    OutputData            `json:"output"`
}

// Validate runs every sub-structure's validation and the top-level
// invariants (non-empty zone list, consistent time range).
func (s *Simulation) Validate() error {
	if s.Data.EndTime <= s.Data.StartTime {
		return chk.Err("endtime (%v) must be greater than starttime (%v)", s.Data.EndTime, s.Data.StartTime)
	}
	if err := s.Solver.Validate(); err != nil {
		return err
	}
	if len(s.Zones) == 0 {
		return chk.Err("project defines no zones")
	}
	seen := make(map[uint]bool)
	for _, z := range s.Zones {
		if seen[z.Id] {
			return chk.Err("duplicate zone id %d", z.Id)
		}
		seen[z.Id] = true
		if err := z.Validate(); err != nil {
			return err
		}
	}
	seenSched := make(map[uint]bool)
	for _, def := range s.Schedules {
		if seenSched[def.Id] {
			return chk.Err("duplicate schedule id %d", def.Id)
		}
		seenSched[def.Id] = true
		if def.As == "" {
			return chk.Err("schedule %d: \"as\" quantity name must not be empty", def.Id)
		}
		if _, ok := s.Functions.Find(def.Function); !ok && def.Function != "zero" && def.Function != "none" {
			return chk.Err("schedule %d: references unknown function %q", def.Id, def.Function)
		}
	}
	if s.Network != nil {
		if err := s.Network.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Default fills in solver and data defaults before Validate runs.
func (s *Simulation) Default() {
	s.Solver.SetDefault()
	if s.Data.TimeUnit == "" {
		s.Data.TimeUnit = "h"
	}
}

// ParseSimulation decodes a project description from JSON bytes,
// applies defaults, and validates it. Reading the file itself is left
// to the caller (spec §1 Non-goals: "project-file parsing").
func ParseSimulation(b []byte) (*Simulation, error) {
	var s Simulation
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, chk.Err("cannot unmarshal project description: %v", err)
	}
	s.Default()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// nonPositive reports whether v is not a valid strictly-positive
// parameter, guarding against NaN slipping past a plain `<= 0` check.
func nonPositive(v float64) bool {
	return math.IsNaN(v) || v <= 0
}
