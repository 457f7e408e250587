// FILE: lixenwraith/flags/flag.go
package flags

// SetMode selects how a new value is written into a flag.
type SetMode int

const (
	// SetValue overwrites the current value and marks the flag modified.
	SetValue SetMode = iota
	// SetIfDefault writes the current value only if the flag was never modified.
	SetIfDefault
	// SetDefault replaces the default, and the current value too if the flag
	// was never modified.
	SetDefault
)

func (m SetMode) String() string {
	switch m {
	case SetValue:
		return "value"
	case SetIfDefault:
		return "if-default"
	case SetDefault:
		return "default"
	}
	return "unknown"
}

// FlagInfo is a read-only copy of one flag's state.
type FlagInfo struct {
	Name         string
	Type         string
	Description  string
	CurrentValue string
	DefaultValue string
	Filename     string
	IsDefault    bool // the flag was never modified
	HasValidator bool
	Ptr          any // storage address, e.g. *int32
}

// descriptor is the registry record of a flag. Every field after file is
// mutated only while the owning registry's mutex is held.
type descriptor struct {
	name string
	help string
	file string

	defValue  Value
	current   Value
	modified  bool
	validator validator
}

func (d *descriptor) Type() Type {
	return d.current.Type()
}

// updateModified marks the flag modified once current diverges from default.
// It never clears the bit.
func (d *descriptor) updateModified() {
	if !d.modified && !d.current.equal(d.defValue) {
		d.modified = true
	}
}

func (d *descriptor) validateCurrent() bool {
	return d.validateValue(d.current)
}

func (d *descriptor) validateValue(v Value) bool {
	if d.validator == nil {
		return true
	}
	return v.validate(d.name, d.validator)
}

// clone returns a detached copy with owned storage.
func (d *descriptor) clone() *descriptor {
	c := &descriptor{
		name:     d.name,
		help:     d.help,
		file:     d.file,
		defValue: d.defValue.zero(),
		current:  d.current.zero(),
	}
	c.copyFrom(d)
	return c
}

// copyFrom overwrites mutable state; identity and storage addresses are kept.
func (d *descriptor) copyFrom(src *descriptor) {
	if d == src {
		return
	}
	d.modified = src.modified
	d.current.copyFrom(src.current)
	d.defValue.copyFrom(src.defValue)
	d.validator = src.validator
}

func (d *descriptor) info() FlagInfo {
	d.updateModified()
	return FlagInfo{
		Name:         d.name,
		Type:         d.Type().String(),
		Description:  d.help,
		CurrentValue: d.current.String(),
		DefaultValue: d.defValue.String(),
		Filename:     d.file,
		IsDefault:    !d.modified,
		HasValidator: d.validator != nil,
		Ptr:          d.current.Addr(),
	}
}
