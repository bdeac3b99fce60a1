package hypergraph

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// Snapshot binary layout: [Magic(1)][Version(1)][Length(4)][CRC32(4)][Payload(N)].
// The payload is a gob-encoded stateRecord; the checksum covers the payload
// only, so header corruption and body corruption surface as distinct errors
// (both wrapped in ErrBadFormat).
const (
	magicByte       = 0xA7
	snapshotVersion = 0x01
	headerSize      = 10
)

// edgeRecord is the persisted form of one hyperedge. Members are the sorted
// canonical tuple; the connection weight slices are nil when the edge
// carries none.
type edgeRecord struct {
	Members []int
	WE      float64
	WV2E    []float64
	WE2V    []float64
}

// groupRecord preserves one group's insertion-order edge enumeration.
type groupRecord struct {
	Name  string
	Edges []edgeRecord
}

// stateRecord is the complete raw state: everything except caches, which
// are derived and rebuilt lazily after load.
type stateRecord struct {
	NumV     int
	UniformK int
	VWeight  []float64
	Groups   []groupRecord
}

func (h *Hypergraph) stateRecord() stateRecord {
	rec := stateRecord{
		NumV:     h.numV,
		UniformK: h.uniformK,
		VWeight:  append([]float64(nil), h.vWeight...),
		Groups:   make([]groupRecord, 0, len(h.groupOrder)),
	}
	for _, name := range h.groupOrder {
		g := h.groups[name]
		gr := groupRecord{Name: name, Edges: make([]edgeRecord, 0, len(g.order))}
		for _, code := range g.order {
			e := g.edges[code]
			gr.Edges = append(gr.Edges, edgeRecord{
				Members: append([]int(nil), e.members...),
				WE:      e.wE,
				WV2E:    append([]float64(nil), e.wV2E...),
				WE2V:    append([]float64(nil), e.wE2V...),
			})
		}
		rec.Groups = append(rec.Groups, gr)
	}

	return rec
}

// SaveTo serializes the raw structure state (vertex count, vertex weights,
// groups with their insertion-order edge enumerations) to w. Derived
// matrices are never persisted.
func (h *Hypergraph) SaveTo(w io.Writer) error {
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(h.stateRecord()); err != nil {
		return fmt.Errorf("hypergraph: encode state: %w", err)
	}

	header := make([]byte, headerSize)
	header[0] = magicByte
	header[1] = snapshotVersion
	binary.LittleEndian.PutUint32(header[2:6], uint32(payload.Len()))
	binary.LittleEndian.PutUint32(header[6:10], crc32.ChecksumIEEE(payload.Bytes()))

	if _, err := w.Write(header); err != nil {
		return err
	}
	if _, err := w.Write(payload.Bytes()); err != nil {
		return err
	}

	return nil
}

// LoadFrom reads a snapshot written by SaveTo and reconstructs the
// structure. Caches start cold; the dropout stream is re-seeded with the
// default seed. Any framing, checksum, or semantic violation fails with an
// error wrapping ErrBadFormat.
func LoadFrom(r io.Reader) (*Hypergraph, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: incomplete header: %v", ErrBadFormat, err)
	}
	if header[0] != magicByte {
		return nil, fmt.Errorf("%w: bad magic byte 0x%02X", ErrBadFormat, header[0])
	}
	if header[1] != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", ErrBadFormat, header[1])
	}

	length := binary.LittleEndian.Uint32(header[2:6])
	wantCRC := binary.LittleEndian.Uint32(header[6:10])
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: incomplete payload: %v", ErrBadFormat, err)
	}
	if got := crc32.ChecksumIEEE(payload); got != wantCRC {
		return nil, fmt.Errorf("%w: crc32 mismatch (want 0x%08X, got 0x%08X)", ErrBadFormat, wantCRC, got)
	}

	var rec stateRecord
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: decode state: %v", ErrBadFormat, err)
	}

	return fromStateRecord(rec)
}

func fromStateRecord(rec stateRecord) (*Hypergraph, error) {
	if rec.NumV <= 0 {
		return nil, fmt.Errorf("%w: num_v must be positive, got %d", ErrBadFormat, rec.NumV)
	}
	if len(rec.VWeight) != rec.NumV {
		return nil, fmt.Errorf("%w: vertex weight vector has %d entries, want %d",
			ErrBadFormat, len(rec.VWeight), rec.NumV)
	}
	if rec.UniformK < 0 {
		return nil, fmt.Errorf("%w: negative uniform edge size", ErrBadFormat)
	}

	h := &Hypergraph{
		numV:     rec.NumV,
		vWeight:  append([]float64(nil), rec.VWeight...),
		uniformK: rec.UniformK,
		groups:   make(map[string]*edgeGroup, len(rec.Groups)),
		cache:    newMatrixCache(),
		device:   DeviceCPU,
		src:      newSource(defaultSeed),
	}
	for _, gr := range rec.Groups {
		if _, dup := h.groups[gr.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate group %q", ErrBadFormat, gr.Name)
		}
		g := newEdgeGroup()
		for _, er := range gr.Edges {
			if len(er.Members) == 0 {
				return nil, fmt.Errorf("%w: empty hyperedge in group %q", ErrBadFormat, gr.Name)
			}
			for _, v := range er.Members {
				if v < 0 || v >= h.numV {
					return nil, fmt.Errorf("%w: vertex %d out of range in group %q", ErrBadFormat, v, gr.Name)
				}
			}
			if (er.WV2E != nil && len(er.WV2E) != len(er.Members)) ||
				(er.WE2V != nil && len(er.WE2V) != len(er.Members)) {
				return nil, fmt.Errorf("%w: connection weight length mismatch in group %q", ErrBadFormat, gr.Name)
			}
			code := edgeCode(er.Members)
			if _, dup := g.edges[code]; dup {
				return nil, fmt.Errorf("%w: duplicate hyperedge %q in group %q", ErrBadFormat, code, gr.Name)
			}
			var wV2E, wE2V []float64
			if er.WV2E != nil {
				wV2E = append([]float64(nil), er.WV2E...)
			}
			if er.WE2V != nil {
				wE2V = append([]float64(nil), er.WE2V...)
			}
			g.edges[code] = &hyperedge{
				members: append([]int(nil), er.Members...),
				wE:      er.WE,
				wV2E:    wV2E,
				wE2V:    wE2V,
			}
			g.order = append(g.order, code)
		}
		h.groups[gr.Name] = g
		h.groupOrder = append(h.groupOrder, gr.Name)
	}

	return h, nil
}

// Save writes a snapshot to path, truncating any existing file.
func (h *Hypergraph) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = h.SaveTo(f); err != nil {
		f.Close()

		return err
	}

	return f.Close()
}

// Load reads a snapshot from path.
func Load(path string) (*Hypergraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadFrom(f)
}
