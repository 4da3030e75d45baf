package mono

import (
	"fmt"

	"keel/internal/types"
)

// Validate sweeps the registry for structural damage: broken datatype
// round-trips, non-dense variant numbering, one-way signature links, default
// flags that contradict the template. Engine operations preserve all of
// these; a failure means the registry was corrupted from outside.
func (c *Context) Validate() error {
	for i := 1; i <= c.NumTemplates(); i++ {
		if err := c.validateTemplate(TemplateID(uint32(i))); err != nil {
			return err
		}
	}
	for i := 1; i <= c.NumSignatures(); i++ {
		if err := c.validateSignature(SignatureID(uint32(i))); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) validateTemplate(tid TemplateID) error {
	t := c.Template(tid)
	tt, ok := c.Types.Lookup(t.Datatype)
	if !ok || tt.Kind != types.KindTemplate || TemplateID(tt.Payload) != tid {
		return fmt.Errorf("mono: template %d datatype does not round-trip", tid)
	}
	if owner, ok := c.templateByFunc[t.Func]; !ok || owner != tid {
		return fmt.Errorf("mono: template %d constructor link is one-way", tid)
	}
	if t.HasDefault && c.hasSignatureParams(tid) {
		return fmt.Errorf("mono: template %d has a default but signature parameters", tid)
	}
	if t.HasDefault && len(t.Classes) == 0 {
		return fmt.Errorf("mono: template %d has a default but no variants", tid)
	}
	for i, cid := range t.Classes {
		cl := c.Class(cid)
		if cl == nil {
			return fmt.Errorf("mono: template %d lists invalid variant %d", tid, cid)
		}
		if cl.Template != tid {
			return fmt.Errorf("mono: variant %d claims template %d, listed under %d", cid, cl.Template, tid)
		}
		if int(cl.Number) != i+1 {
			return fmt.Errorf("mono: variant %d numbered %d at position %d of template %d", cid, cl.Number, i+1, tid)
		}
		if cl.RefWidth != t.RefWidth {
			return fmt.Errorf("mono: variant %d ref width %d differs from template %d", cid, cl.RefWidth, tid)
		}
		ct, ok := c.Types.Lookup(cl.Datatype)
		if !ok || ct.Kind != types.KindClass || ClassID(ct.Payload) != cid {
			return fmt.Errorf("mono: variant %d datatype does not round-trip", cid)
		}
		if len(cl.Sigs) == 0 {
			if !t.HasDefault {
				return fmt.Errorf("mono: unbound variant %d on template %d without a default", cid, tid)
			}
			if i != 0 {
				return fmt.Errorf("mono: unbound variant %d is not the first of template %d", cid, tid)
			}
		}
		for _, sid := range cl.Sigs {
			s := c.Signature(sid)
			if s == nil {
				return fmt.Errorf("mono: variant %d lists invalid signature %d", cid, sid)
			}
			if s.Class != cid {
				return fmt.Errorf("mono: signature %d bound to variant %d, listed under %d", sid, s.Class, cid)
			}
		}
	}
	return nil
}

func (c *Context) validateSignature(sid SignatureID) error {
	s := c.Signature(sid)
	if c.AST.Funcs.Get(s.Func) == nil {
		return fmt.Errorf("mono: signature %d names invalid constructor %d", sid, s.Func)
	}
	for i, p := range s.Params {
		if _, ok := c.Types.Lookup(p); !ok {
			return fmt.Errorf("mono: signature %d parameter %d has invalid type", sid, i)
		}
	}
	if !s.Class.IsValid() {
		return nil
	}
	cl := c.Class(s.Class)
	if cl == nil {
		return fmt.Errorf("mono: signature %d resolved to invalid variant %d", sid, s.Class)
	}
	if c.Template(cl.Template).Func != s.Func {
		return fmt.Errorf("mono: signature %d resolved across templates to variant %d", sid, s.Class)
	}
	found := false
	for _, listed := range cl.Sigs {
		if listed == sid {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("mono: signature %d not listed on its variant %d", sid, s.Class)
	}
	return nil
}
