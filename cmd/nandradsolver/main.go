// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command nandradsolver is the CLI driver of spec §6: it reads a
// project file, builds a kernel.Simulation, runs it to the project's
// end time, and exits non-zero on any configuration or solver failure.
package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/integrate"
	"github.com/hirseboy/SIM-VICUS-sub000/kernel"
)

// flags holds the CLI surface of spec §6, bound once in newRootCmd and
// read by runSolve.
type flags struct {
	integrator  string
	lesSolver   string
	precond     string
	outputDir   string
	restart     bool
	restartFrom float64
	testInit    bool
	stepStats   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nandradsolver: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "nandradsolver PROJECT_FILE",
		Short: "Dynamic building-performance simulation kernel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(args[0], f)
		},
	}
	cmd.Flags().StringVar(&f.integrator, "integrator", "", `integration scheme: "ExplicitEuler", "ImplicitEuler", or "BDF" (overrides the project file)`)
	cmd.Flags().StringVar(&f.lesSolver, "les-solver", "", `linear equation solver: "Dense", "KLU", "GMRES[=K]", or "BiCGStab[=K]" (overrides the project file)`)
	cmd.Flags().StringVar(&f.precond, "precond", "", `preconditioner: "None", "ILU[=W]" (overrides the project file)`)
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "output root directory (overrides the project file's dirout)")
	cmd.Flags().BoolVar(&f.restart, "restart", false, "append to existing log/output files instead of truncating them")
	cmd.Flags().Float64Var(&f.restartFrom, "restart-from", 0, "resume from time t instead of the project's start time; implies --restart")
	cmd.Flags().BoolVar(&f.testInit, "test-init", false, "construct the simulation, dump the output-reference list, and stop without running")
	cmd.Flags().BoolVar(&f.stepStats, "step-stats", false, "print a table of integrator step statistics after the run")
	return cmd
}

func runSolve(projectPath string, f *flags) error {
	raw, err := os.ReadFile(projectPath)
	if err != nil {
		return fmt.Errorf("reading project file: %w", err)
	}
	proj, err := inp.ParseSimulation(raw)
	if err != nil {
		return fmt.Errorf("parsing project file: %w", err)
	}
	applyOverrides(proj, f)
	if err := proj.Validate(); err != nil {
		return fmt.Errorf("validating project after CLI overrides: %w", err)
	}

	dirout := proj.Data.DirOut
	if f.outputDir != "" {
		dirout = f.outputDir
	}
	if dirout == "" {
		dirout = "."
	}

	restart := f.restart || f.restartFrom > 0
	if f.restartFrom > 0 {
		proj.Data.StartTime = f.restartFrom
	}

	runId := uuid.New().String()
	sim, err := kernel.New(proj, nil, dirout, restart, workerCount())
	if err != nil {
		return fmt.Errorf("building simulation (run %s): %w", runId, err)
	}
	defer sim.Close()

	if f.testInit {
		return sim.WriteReferenceList()
	}

	if err := sim.Run(nil); err != nil {
		return fmt.Errorf("run %s: %w", runId, err)
	}

	if f.stepStats {
		printStepStats(sim.Stats())
	}
	return nil
}

// applyOverrides layers CLI flags on top of the project file's own
// solver block (spec §6: flags are described as the driver's surface,
// not a replacement for the project file). --les-solver and --precond
// carry an optional "=K"/"=W" suffix (spec §6: "GMRES[=K]", "ILU[=W]")
// naming the Krylov dimension / fill level rather than a second LES
// choice, so each is split on its first "=" before assignment.
func applyOverrides(proj *inp.Simulation, f *flags) {
	if f.integrator != "" {
		proj.Solver.Integrator = f.integrator
	}
	if f.lesSolver != "" {
		name, k := splitFlagParam(f.lesSolver)
		proj.Solver.LES = name
		if k > 0 {
			proj.Solver.KrylovDim = k
		}
	}
	if f.precond != "" {
		name, w := splitFlagParam(f.precond)
		proj.Solver.Precond = name
		if w > 0 {
			proj.Solver.ILUFill = w
		}
	}
	proj.Default()
}

// splitFlagParam splits a "Name=Param" CLI flag value into its name and
// optional trailing integer parameter; returns (value, 0) when there is
// no "=Param" suffix or it doesn't parse as an integer.
func splitFlagParam(value string) (string, int) {
	for i := 0; i < len(value); i++ {
		if value[i] == '=' {
			if n, err := strconv.Atoi(value[i+1:]); err == nil {
				return value[:i], n
			}
			return value[:i], 0
		}
	}
	return value, 0
}

// workerCount sizes the model-graph worker pool from the environment
// (spec §6: "a thread-count environment variable influences the
// worker-pool size when the config value is empty"), falling back to
// the host's logical CPU count.
func workerCount() int {
	if v := os.Getenv("NANDRADSOLVER_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}

// printStepStats renders the integrator's step counters to the screen
// (spec §6's --step-stats surface).
func printStepStats(stats integrate.StepStats) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"accepted steps", "rejected steps", "newton iterations"})
	table.Append([]string{
		strconv.Itoa(stats.AcceptedSteps),
		strconv.Itoa(stats.RejectedSteps),
		strconv.Itoa(stats.NewtonIters),
	})
	table.Render()
}
