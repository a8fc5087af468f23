package compiler

// BasicBlock is a straight-line run of instructions. A block starts at a
// label definition or right after a jump, and ends after a jump or return.
type BasicBlock struct {
	Label string // empty for a block only entered by falling through
	Code  []Instr
	Succs []string // labels the block jumps to

	// FallsThrough is set when control can continue into the next block.
	FallsThrough bool
}

// CFG holds the blocks of one function body, in emission order.
type CFG struct {
	Blocks []*BasicBlock
	labels map[string]int
}

// jumpTarget returns the label operand of a branch instruction.
func jumpTarget(in Instr) (string, bool) {
	if in.Op == OpJump {
		return in.Args[0], true
	}
	if isConditional(in.Op) {
		return in.Args[2], true
	}
	return "", false
}

func isConditional(op Op) bool {
	switch op {
	case OpJlt, OpJlte, OpJeq, OpJneq:
		return true
	}
	return false
}

func endsBlock(op Op) bool {
	switch op {
	case OpJump, OpJlt, OpJlte, OpJeq, OpJneq, OpRet, OpRetf:
		return true
	}
	return false
}

// BuildCFG splits the code of f into basic blocks.
func BuildCFG(f Fragment) *CFG {
	g := &CFG{labels: make(map[string]int)}
	var cur *BasicBlock

	for _, in := range f.Code {
		if in.Op == OpLabel {
			if cur != nil {
				cur.FallsThrough = true
			}
			cur = g.newBlock(in.Args[0])
			continue
		}
		if cur == nil {
			cur = g.newBlock("")
		}
		cur.Code = append(cur.Code, in)
		if target, ok := jumpTarget(in); ok {
			cur.Succs = append(cur.Succs, target)
		}
		if endsBlock(in.Op) {
			cur.FallsThrough = isConditional(in.Op)
			cur = nil
		}
	}
	if cur != nil {
		// runs off the end of the body
		cur.FallsThrough = true
	}
	return g
}

func (g *CFG) newBlock(label string) *BasicBlock {
	b := &BasicBlock{Label: label}
	g.Blocks = append(g.Blocks, b)
	if label != "" {
		g.labels[label] = len(g.Blocks) - 1
	}
	return b
}

// Block returns the block defined by label, or nil.
func (g *CFG) Block(label string) *BasicBlock {
	if i, ok := g.labels[label]; ok {
		return g.Blocks[i]
	}
	return nil
}

// Undefined returns the jump targets no block defines, in order of first use.
func (g *CFG) Undefined() []string {
	var missing []string
	seen := make(map[string]bool)
	for _, b := range g.Blocks {
		for _, s := range b.Succs {
			if _, ok := g.labels[s]; !ok && !seen[s] {
				seen[s] = true
				missing = append(missing, s)
			}
		}
	}
	return missing
}

// Unreachable returns the blocks control can never enter from the first one.
func (g *CFG) Unreachable() []*BasicBlock {
	if len(g.Blocks) == 0 {
		return nil
	}
	reached := make([]bool, len(g.Blocks))
	work := []int{0}
	reached[0] = true
	visit := func(i int) {
		if !reached[i] {
			reached[i] = true
			work = append(work, i)
		}
	}
	for len(work) > 0 {
		i := work[len(work)-1]
		work = work[:len(work)-1]
		b := g.Blocks[i]
		for _, s := range b.Succs {
			if j, ok := g.labels[s]; ok {
				visit(j)
			}
		}
		if b.FallsThrough && i+1 < len(g.Blocks) {
			visit(i + 1)
		}
	}

	var dead []*BasicBlock
	for i, b := range g.Blocks {
		if !reached[i] {
			dead = append(dead, b)
		}
	}
	return dead
}
