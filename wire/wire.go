package wire

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/hupe1980/antmesh/grid"
	"github.com/hupe1980/antmesh/knowledge"
)

// Version is the only payload version this package reads and writes.
const Version = 1

// MaxGridSize bounds the side length accepted by Unmarshal.
const MaxGridSize = 1024

var (
	// ErrMalformed is returned for payloads that cannot be decoded.
	ErrMalformed = errors.New("wire: malformed snapshot")
	// ErrVersion is returned for payloads of an unknown version.
	ErrVersion = errors.New("wire: unsupported version")
)

const (
	fieldVersion protowire.Number = 1
	fieldRole    protowire.Number = 2
	fieldAge     protowire.Number = 3
	fieldYear    protowire.Number = 4
	fieldID      protowire.Number = 5
	fieldGrid    protowire.Number = 6

	fieldSize        protowire.Number = 1
	fieldFood        protowire.Number = 2
	fieldTraversable protowire.Number = 3
	fieldYearViewed  protowire.Number = 4
	fieldYearVisited protowire.Number = 5
)

// Marshal encodes s.
func Marshal(s *knowledge.Snapshot) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrMalformed)
	}

	var b []byte
	b = appendUint(b, fieldVersion, Version)
	b = appendUint(b, fieldRole, uint64(s.Role))
	b = appendSint(b, fieldAge, int64(s.Age))
	b = appendSint(b, fieldYear, int64(s.Year))
	b = appendSint(b, fieldID, s.ID)
	if s.Grid != nil {
		b = protowire.AppendTag(b, fieldGrid, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalGrid(s.Grid))
	}
	return b, nil
}

func marshalGrid(g *grid.Grid) []byte {
	cells := g.Cells()
	var b []byte
	b = appendUint(b, fieldSize, uint64(g.Size()))
	b = appendPacked(b, fieldFood, cells, func(s *grid.Spot) uint64 { return protowire.EncodeZigZag(int64(s.Food)) })
	b = appendPacked(b, fieldTraversable, cells, func(s *grid.Spot) uint64 { return protowire.EncodeBool(s.Traversable) })
	b = appendPacked(b, fieldYearViewed, cells, func(s *grid.Spot) uint64 { return protowire.EncodeZigZag(int64(s.YearViewed)) })
	b = appendPacked(b, fieldYearVisited, cells, func(s *grid.Spot) uint64 { return protowire.EncodeZigZag(int64(s.YearVisited)) })
	return b
}

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendSint(b []byte, num protowire.Number, v int64) []byte {
	return appendUint(b, num, protowire.EncodeZigZag(v))
}

func appendPacked(b []byte, num protowire.Number, cells []grid.Spot, fn func(*grid.Spot) uint64) []byte {
	n := 0
	for i := range cells {
		n += protowire.SizeVarint(fn(&cells[i]))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(n))
	for i := range cells {
		b = protowire.AppendVarint(b, fn(&cells[i]))
	}
	return b
}

// Unmarshal decodes a snapshot. The result is structurally valid: a known
// role, non-negative age and year, and a complete grid if one is present.
func Unmarshal(data []byte) (*knowledge.Snapshot, error) {
	var (
		s       knowledge.Snapshot
		version uint64
		seen    bool
	)
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, malformed(protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldGrid && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, malformed(protowire.ParseError(n))
			}
			g, err := unmarshalGrid(raw)
			if err != nil {
				return nil, err
			}
			s.Grid = g
			data = data[n:]
		case typ == protowire.VarintType && num >= fieldVersion && num <= fieldID:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, malformed(protowire.ParseError(n))
			}
			data = data[n:]
			switch num {
			case fieldVersion:
				version, seen = v, true
			case fieldRole:
				s.Role = knowledge.Role(min(v, 255))
			case fieldAge:
				s.Age = int(protowire.DecodeZigZag(v))
			case fieldYear:
				s.Year = int(protowire.DecodeZigZag(v))
			case fieldID:
				s.ID = protowire.DecodeZigZag(v)
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, malformed(protowire.ParseError(n))
			}
			data = data[n:]
		}
	}

	if !seen {
		return nil, fmt.Errorf("%w: missing version", ErrMalformed)
	}
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, version)
	}
	if !s.Role.Valid() {
		return nil, fmt.Errorf("%w: role %d", ErrMalformed, uint8(s.Role))
	}
	if s.Age < 0 || s.Year < 0 {
		return nil, fmt.Errorf("%w: negative age %d or year %d", ErrMalformed, s.Age, s.Year)
	}
	return &s, nil
}

func unmarshalGrid(data []byte) (*grid.Grid, error) {
	var (
		size   uint64
		fields [4][]uint64
	)
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, malformed(protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldSize && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, malformed(protowire.ParseError(n))
			}
			size = v
			data = data[n:]
		case num >= fieldFood && num <= fieldYearVisited && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, malformed(protowire.ParseError(n))
			}
			vals, err := unpack(raw)
			if err != nil {
				return nil, err
			}
			fields[num-fieldFood] = append(fields[num-fieldFood], vals...)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, malformed(protowire.ParseError(n))
			}
			data = data[n:]
		}
	}

	if size == 0 || size > MaxGridSize {
		return nil, fmt.Errorf("%w: grid size %d", ErrMalformed, size)
	}
	want := int(size * size)
	for i, f := range fields {
		if len(f) != want {
			return nil, fmt.Errorf("%w: grid field %d has %d cells, want %d", ErrMalformed, i+int(fieldFood), len(f), want)
		}
	}
	cells := make([]grid.Spot, want)
	for i := range cells {
		cells[i] = grid.Spot{
			Food:        int(protowire.DecodeZigZag(fields[0][i])),
			Traversable: protowire.DecodeBool(fields[1][i]),
			YearViewed:  int(protowire.DecodeZigZag(fields[2][i])),
			YearVisited: int(protowire.DecodeZigZag(fields[3][i])),
		}
	}
	g, err := grid.FromCells(int(size), cells)
	if err != nil {
		return nil, malformed(err)
	}
	return g, nil
}

func unpack(raw []byte) ([]uint64, error) {
	var out []uint64
	for len(raw) > 0 {
		v, n := protowire.ConsumeVarint(raw)
		if n < 0 {
			return nil, malformed(protowire.ParseError(n))
		}
		out = append(out, v)
		raw = raw[n:]
	}
	return out, nil
}

func malformed(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformed, err)
}
