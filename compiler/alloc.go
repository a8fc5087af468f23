package compiler

import "strconv"

// Space is an address space. Each space has its own slot counter and operand prefix.
type Space int

const (
	Global Space = iota
	Local
	Param
	Temp
	Const
	numSpaces
)

var spacePrefixes = [...]string{
	Global: "$",
	Local:  "@",
	Param:  "%",
	Temp:   "&",
	Const:  "?",
}

var spaceNames = [...]string{
	Global: "global",
	Local:  "local",
	Param:  "param",
	Temp:   "temp",
	Const:  "const",
}

func (s Space) String() string {
	return spaceNames[s]
}

// Address renders slot n of space s as an operand, e.g. "@2".
func Address(s Space, n int) string {
	return spacePrefixes[s] + strconv.Itoa(n)
}

// Allocator hands out address slots, labels and constant pool entries for
// one compilation. Local, param and temp slots restart at every function;
// everything else lives for the whole run.
type Allocator struct {
	counts [numSpaces]int
	labels int
	consts []string
}

func NewAllocator() *Allocator {
	return &Allocator{}
}

// New returns the next free slot of space s.
func (a *Allocator) New(s Space) string {
	n := a.counts[s]
	a.counts[s]++
	return Address(s, n)
}

// Count is the number of slots handed out in s since its last reset.
func (a *Allocator) Count(s Space) int {
	return a.counts[s]
}

// ResetFunction starts a new function body.
func (a *Allocator) ResetFunction() {
	a.counts[Local] = 0
	a.counts[Param] = 0
	a.counts[Temp] = 0
}

func (a *Allocator) NewLabel() string {
	l := "~" + strconv.Itoa(a.labels)
	a.labels++
	return l
}

// AddConst appends raw to the constant pool and returns its address.
// Equal literals get separate entries.
func (a *Allocator) AddConst(raw string) string {
	a.consts = append(a.consts, raw)
	return a.New(Const)
}

// Consts returns the pool in insertion order.
func (a *Allocator) Consts() []string {
	return a.consts
}
