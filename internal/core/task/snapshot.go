package task

import "sort"

// Snapshot is one push from the external store: the full task, client, and
// employee population at a point in time. Filtering and aggregation are
// recomputed from scratch per snapshot; task order is the canonical order
// the pipeline preserves.
type Snapshot struct {
	Tasks     []Task
	Clients   []Client
	Employees []Employee
}

// KeyedSnapshot is the wire shape pushed by the store: keyed mappings of
// id to record, per the external interface contract.
type KeyedSnapshot struct {
	Tasks     map[string]Task     `json:"tasks"`
	Clients   map[string]Client   `json:"clients"`
	Employees map[string]Employee `json:"employees"`
}

// FromKeyed converts a keyed wire snapshot into an ordered Snapshot.
// Map iteration order is not stable, so records are sorted by id to give the
// pipeline a deterministic canonical order. Records missing an id inherit
// their map key.
func FromKeyed(ks KeyedSnapshot) Snapshot {
	snap := Snapshot{
		Tasks:     make([]Task, 0, len(ks.Tasks)),
		Clients:   make([]Client, 0, len(ks.Clients)),
		Employees: make([]Employee, 0, len(ks.Employees)),
	}

	for id, t := range ks.Tasks {
		if t.ID == "" {
			t.ID = id
		}
		snap.Tasks = append(snap.Tasks, t)
	}
	sort.Slice(snap.Tasks, func(i, j int) bool { return snap.Tasks[i].ID < snap.Tasks[j].ID })

	for id, c := range ks.Clients {
		if c.ID == "" {
			c.ID = id
		}
		snap.Clients = append(snap.Clients, c)
	}
	sort.Slice(snap.Clients, func(i, j int) bool { return snap.Clients[i].ID < snap.Clients[j].ID })

	for id, e := range ks.Employees {
		if e.ID == "" {
			e.ID = id
		}
		snap.Employees = append(snap.Employees, e)
	}
	sort.Slice(snap.Employees, func(i, j int) bool { return snap.Employees[i].ID < snap.Employees[j].ID })

	return snap
}
