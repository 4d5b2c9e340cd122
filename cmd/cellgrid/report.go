// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/gogpu/cellgrid"
	"github.com/gogpu/cellgrid/backend"
)

// adapterRow is one line of the -list-adapters table.
type adapterRow struct {
	backend string
	info    backend.AdapterInfo
	err     error
}

func writeAdapters(w io.Writer, rows []adapterRow) error {
	table := tablewriter.NewWriter(w)
	if err := table.Append([]string{"Backend", "Adapter", "Type", "Vendor", "Driver"}); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{r.backend, r.info.Name, r.info.DeviceType, r.info.Vendor, r.info.Driver}
		if r.err != nil {
			row = []string{r.backend, "unavailable: " + r.err.Error(), "", "", ""}
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func writeReport(w io.Writer, runID string, cfg cellgrid.Config, r cellgrid.HeadlessReport) error {
	table := tablewriter.NewWriter(w)
	rows := [][]string{
		{"Run", runID},
		{"Grid", fmt.Sprintf("%d×%d", cfg.GridSize, cfg.GridSize)},
		{"Rule", cfg.Rule.String()},
		{"Steps", fmt.Sprint(r.Steps)},
		{"Newest generation", generationName(r.Parity)},
		{"Elapsed", r.Elapsed.Round(time.Millisecond).String()},
	}
	if r.Verified > 0 {
		rows = append(rows, []string{"Verified", fmt.Sprintf("%d (%d mismatches)", r.Verified, r.Mismatches)})
	}
	if r.Snapshot != "" {
		rows = append(rows, []string{"Snapshot", r.Snapshot})
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// generationName names the buffer holding the newest generation.
func generationName(p cellgrid.Parity) string {
	if p.Input() == cellgrid.GenerationA {
		return "A"
	}
	return "B"
}
