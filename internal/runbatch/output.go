// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import "slices"

// ProcessOutput is output read from one process.
type ProcessOutput struct {
	Process *Process
	Data    string
}

// Merge appends the data of other, which must belong to the same process.
func (o *ProcessOutput) Merge(other *ProcessOutput) {
	o.Data += other.Data
}

// GroupOutput holds the output of every process in a group, in declaration order.
type GroupOutput struct {
	ID        int
	Processes []*ProcessOutput
}

// Merge folds other into o. Process entries are matched by process ID; entries
// missing from o are appended.
func (o *GroupOutput) Merge(other *GroupOutput) {
	for _, po := range other.Processes {
		i := slices.IndexFunc(o.Processes, func(existing *ProcessOutput) bool {
			return existing.Process.ID == po.Process.ID
		})

		if i < 0 {
			o.Processes = append(o.Processes, &ProcessOutput{Process: po.Process, Data: po.Data})
			continue
		}

		o.Processes[i].Merge(po)
	}
}

// HasOutput reports whether any process produced data.
func (o *GroupOutput) HasOutput() bool {
	return slices.ContainsFunc(o.Processes, func(po *ProcessOutput) bool {
		return po.Data != ""
	})
}

// ManagerOutput holds output keyed by group, in the order the groups ran.
type ManagerOutput struct {
	Groups []*GroupOutput
}

// Group returns the output of group id, or nil.
func (o *ManagerOutput) Group(id int) *GroupOutput {
	i := slices.IndexFunc(o.Groups, func(g *GroupOutput) bool {
		return g.ID == id
	})
	if i < 0 {
		return nil
	}

	return o.Groups[i]
}

// Merge folds other into o, group by group.
func (o *ManagerOutput) Merge(other *ManagerOutput) {
	for _, g := range other.Groups {
		if existing := o.Group(g.ID); existing != nil {
			existing.Merge(g)
			continue
		}

		merged := &GroupOutput{ID: g.ID}
		merged.Merge(g)
		o.Groups = append(o.Groups, merged)
	}
}

// HasOutput reports whether any group produced data.
func (o *ManagerOutput) HasOutput() bool {
	return slices.ContainsFunc(o.Groups, (*GroupOutput).HasOutput)
}
