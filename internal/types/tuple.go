package types

import (
	"encoding/binary"
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// TupleInfo stores the element types for a tuple type.
type TupleInfo struct {
	Elems []TypeID
}

// RegisterTuple creates or finds an existing tuple type with the given
// elements. Tuples with equal element lists share a TypeID.
func (in *Interner) RegisterTuple(elems []TypeID) TypeID {
	key := tupleKey(elems)
	if id, ok := in.tupleIndex[key]; ok {
		return id
	}
	slot := in.appendTupleInfo(TupleInfo{Elems: elems})
	id := in.internRaw(Type{Kind: KindTuple, Payload: slot})
	if in.tupleIndex == nil {
		in.tupleIndex = make(map[string]TypeID)
	}
	in.tupleIndex[key] = id
	return id
}

// TupleInfo returns the element types for a tuple TypeID.
func (in *Interner) TupleInfo(id TypeID) (*TupleInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTuple {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.tuples) {
		return nil, false
	}
	return &in.tuples[tt.Payload], true
}

func (in *Interner) appendTupleInfo(info TupleInfo) uint32 {
	if in.tuples == nil {
		in.tuples = append(in.tuples, TupleInfo{})
	}
	in.tuples = append(in.tuples, TupleInfo{
		Elems: cloneTypeIDs(info.Elems),
	})
	slot, err := safecast.Conv[uint32](len(in.tuples) - 1)
	if err != nil {
		panic(fmt.Errorf("tuple info overflow: %w", err))
	}
	return slot
}

func tupleKey(elems []TypeID) string {
	buf := make([]byte, 0, len(elems)*4)
	for _, elem := range elems {
		buf = binary.BigEndian.AppendUint32(buf, uint32(elem))
	}
	return string(buf)
}

func cloneTypeIDs(ids []TypeID) []TypeID {
	if len(ids) == 0 {
		return nil
	}
	return slices.Clone(ids)
}
