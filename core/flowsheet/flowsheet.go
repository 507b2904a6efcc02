package flowsheet

import "fmt"

// Arc records a directed connection between two unit ports. The stream state
// itself is shared between the two blocks, so an arc carries no equations;
// it exists for reporting and graph inspection.
type Arc struct {
	From  string
	To    string
	Label string
}

// Flowsheet holds the unit blocks and their connections and provides the
// aggregate view of the equation system: unique variables, equations and
// degrees of freedom.
type Flowsheet struct {
	name   string
	blocks []Block
	arcs   []Arc
}

// New creates an empty flowsheet.
func New(name string) *Flowsheet {
	return &Flowsheet{name: name}
}

// Name returns the flowsheet name.
func (fs *Flowsheet) Name() string { return fs.name }

// Add appends a block. Insertion order is also the initialization order.
func (fs *Flowsheet) Add(blocks ...Block) {
	fs.blocks = append(fs.blocks, blocks...)
}

// Connect records an arc between two blocks.
func (fs *Flowsheet) Connect(from, to Block, label string) {
	fs.arcs = append(fs.arcs, Arc{From: from.Name(), To: to.Name(), Label: label})
}

// Blocks returns the blocks in insertion order.
func (fs *Flowsheet) Blocks() []Block { return fs.blocks }

// Arcs returns the recorded connections.
func (fs *Flowsheet) Arcs() []Arc { return fs.arcs }

// Vars returns the unique variables of the flowsheet in a stable order.
// Stream variables shared by two blocks are reported once.
func (fs *Flowsheet) Vars() []*Var {
	seen := make(map[*Var]struct{})
	var out []*Var
	for _, b := range fs.blocks {
		for _, v := range b.Vars() {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// FreeVars returns the unfixed variables in the same stable order as Vars.
func (fs *Flowsheet) FreeVars() []*Var {
	var out []*Var
	for _, v := range fs.Vars() {
		if !v.Fixed() {
			out = append(out, v)
		}
	}
	return out
}

// NumEquations is the total number of residuals contributed by all blocks.
func (fs *Flowsheet) NumEquations() int {
	n := 0
	for _, b := range fs.blocks {
		n += b.NumEquations()
	}
	return n
}

// DegreesOfFreedom is the number of free variables minus equations.
// A square model has zero degrees of freedom.
func (fs *Flowsheet) DegreesOfFreedom() int {
	return len(fs.FreeVars()) - fs.NumEquations()
}

// Residuals appends the residuals of every block to dst.
func (fs *Flowsheet) Residuals(dst []float64) []float64 {
	for _, b := range fs.blocks {
		dst = b.Residuals(dst)
	}
	return dst
}

// Initialize runs the Initializer blocks in insertion order so each block
// sees an already estimated inlet state.
func (fs *Flowsheet) Initialize() error {
	for _, b := range fs.blocks {
		init, ok := b.(Initializer)
		if !ok {
			continue
		}
		if err := init.Initialize(); err != nil {
			return fmt.Errorf("initialize %s: %w", b.Name(), err)
		}
	}
	return nil
}

// FindVar looks a variable up by name across all blocks.
func (fs *Flowsheet) FindVar(name string) (*Var, bool) {
	for _, v := range fs.Vars() {
		if v.Name() == name {
			return v, true
		}
	}
	return nil, false
}
