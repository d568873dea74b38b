package qlearning

import (
	"sort"

	"github.com/samuelfneumann/ropeduel/agent"
	"github.com/samuelfneumann/ropeduel/state"
	"github.com/samuelfneumann/ropeduel/timestep"
)

// entry is the composite key of the Table
type entry struct {
	State  state.Key
	Action agent.Action
}

// Entry is a single (state, action) value in a Table
type Entry struct {
	State  string  `json:"state"`
	Action string  `json:"action"`
	Value  float64 `json:"value"`
}

// Table is a sparse table of action values. Entries which have never
// been written have a value of 0.0. The table only ever grows.
type Table struct {
	values map[entry]float64
}

// NewTable returns a new, empty Table
func NewTable() *Table {
	return &Table{values: make(map[entry]float64)}
}

// Value returns the value of taking action a in state s
func (t *Table) Value(s state.Key, a agent.Action) float64 {
	return t.values[entry{s, a}]
}

// Values returns the values of all actions in state s
func (t *Table) Values(s state.Key) [agent.NumActions]float64 {
	var values [agent.NumActions]float64
	for a := range values {
		values[a] = t.Value(s, agent.Action(a))
	}
	return values
}

// Set sets the value of taking action a in state s
func (t *Table) Set(s state.Key, a agent.Action, value float64) {
	t.values[entry{s, a}] = value
}

// MaxValue returns the maximum action value in state s
func (t *Table) MaxValue(s state.Key) float64 {
	values := t.Values(s)
	return max(values[agent.Wait], values[agent.Shoot])
}

// Update applies the temporal difference update
//
//	Q(s, a) ← Q(s, a) + α(r + γ max_a' Q(s', a') − Q(s, a))
//
// for transition tr and returns the TD error. Terminal transitions do
// not bootstrap from the next state.
func (t *Table) Update(tr timestep.Transition, learningRate,
	discount float64) float64 {
	target := tr.Reward
	if !tr.Terminal {
		target += discount * t.MaxValue(tr.NextState)
	}

	current := t.Value(tr.State, tr.Action)
	tdError := target - current
	t.Set(tr.State, tr.Action, current+learningRate*tdError)

	return tdError
}

// Size returns the number of (state, action) entries in the table
func (t *Table) Size() int {
	return len(t.values)
}

// Entries returns all entries of the table, sorted by descending value
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, len(t.values))
	for k, v := range t.values {
		entries = append(entries, Entry{
			State:  k.State.String(),
			Action: k.Action.String(),
			Value:  v,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		if entries[i].State != entries[j].State {
			return entries[i].State < entries[j].State
		}
		return entries[i].Action < entries[j].Action
	})
	return entries
}

// Top returns the n highest valued entries of the table
func (t *Table) Top(n int) []Entry {
	entries := t.Entries()
	if n < 0 {
		n = 0
	}
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries
}
