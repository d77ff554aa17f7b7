package experiment

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator produces UIDs for signals and sections created without one.
// prefix is the kind of object, e.g. "sweep" or "sig".
type IDGenerator interface {
	Next(prefix string) string
}

// SequentialIDs numbers objects per experiment: "section_0", "sweep_1", ...
type SequentialIDs struct {
	n int
}

// NewSequentialIDs creates a generator starting at zero.
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{}
}

func (g *SequentialIDs) Next(prefix string) string {
	id := fmt.Sprintf("%s_%d", prefix, g.n)
	g.n++
	return id
}

// UUIDGenerator produces "<prefix>_<uuid>" identifiers, unique across experiments.
type UUIDGenerator struct{}

func (UUIDGenerator) Next(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// newUID asks the generator until it yields an identifier not yet taken.
func (e *Experiment) newUID(prefix string, taken func(string) bool) string {
	for {
		id := e.ids.Next(prefix)
		if !taken(id) {
			return id
		}
	}
}

func (e *Experiment) sectionTaken(uid string) bool {
	_, ok := e.sectionUIDs[uid]
	return ok
}

func (e *Experiment) signalTaken(uid string) bool {
	_, ok := e.signals[uid]
	return ok
}
