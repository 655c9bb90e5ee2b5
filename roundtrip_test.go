// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msrf_test

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"code.hybscloud.com/msrf"
)

func TestStreamWireReference(t *testing.T) {
	var buf bytes.Buffer
	w := msrf.NewWriter(&buf)
	if err := w.Init(); err != nil {
		t.Fatal(err)
	}
	writePayload(t, w, msrf.NewRecordMeta(1, 0, 2), []byte{0xAB, 0xCD})
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}

	want := []byte{
		'M', 'S', 'R', 'F', 0x00, 0x00, 0x00, // header
		0x01, 0x00, 0x00, 0x00, 0x05, // meta: source 1, type 0, varint(2)
		0xAB, 0xCD, // payload
		0x00,       // guard
		0xFF, 0xFF, // EOS
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("stream = % X\nwant     % X", buf.Bytes(), want)
	}
}

func TestStreamRoundTripMixed(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	type rec struct {
		meta    msrf.RecordMeta
		payload []byte
	}
	var recs []rec
	payload := func(n int) []byte {
		p := make([]byte, n)
		rng.Read(p)
		return p
	}
	for i := 0; i < 40; i++ {
		n := rng.Intn(300)
		recs = append(recs, rec{
			meta:    msrf.NewRecordMeta(uint16(1+rng.Intn(40)), uint16(rng.Intn(0x7FFF)), uint64(n)),
			payload: payload(n),
		})
	}
	recs = append(recs, rec{meta: msrf.NewRecordMeta(7, 7, 0)})

	var buf bytes.Buffer
	w := msrf.NewWriter(&buf)
	if err := w.Init(); err != nil {
		t.Fatal(err)
	}
	for _, rc := range recs {
		writePayload(t, w, rc.meta, rc.payload)
	}
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}

	r := msrf.NewReader(bytes.NewReader(buf.Bytes()))
	if err := r.Init(); err != nil {
		t.Fatal(err)
	}
	for i, rc := range recs {
		meta, chunk, err := r.ReadRecord()
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if meta != rc.meta {
			t.Fatalf("record %d meta = %+v, want %+v", i, meta, rc.meta)
		}
		got, err := io.ReadAll(chunk)
		if err != nil {
			t.Fatalf("record %d payload: %v", i, err)
		}
		if !bytes.Equal(got, rc.payload) {
			t.Fatalf("record %d payload mismatch (%d vs %d bytes)", i, len(got), len(rc.payload))
		}
	}
	if _, _, err := r.ReadRecord(); err != io.EOF {
		t.Fatalf("EOS: %v", err)
	}
}

func TestStreamRoundTripDeepNesting(t *testing.T) {
	const depth = 2000

	var buf bytes.Buffer
	w := msrf.NewWriter(&buf)
	if err := w.Init(); err != nil {
		t.Fatal(err)
	}
	// Each container holds exactly one child: the next container, then one
	// leaf at the bottom.
	for i := 0; i < depth; i++ {
		if err := w.WriteContainer(1, uint16(i%0x7FFF), 1); err != nil {
			t.Fatalf("container %d: %v", i, err)
		}
	}
	writePayload(t, w, msrf.NewRecordMeta(1, 0, 1), []byte{0x01})
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}

	r := msrf.NewReader(bytes.NewReader(buf.Bytes()))
	if err := r.Init(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < depth; i++ {
		if _, _, err := r.ReadRecord(); err != nil {
			t.Fatalf("container %d: %v", i, err)
		}
	}
	if _, _, err := r.ReadRecord(); err != nil {
		t.Fatalf("leaf: %v", err)
	}
	if got := r.Depth(); got != depth {
		t.Fatalf("depth = %d, want %d", got, depth)
	}
	if _, _, err := r.ReadRecord(); err != io.EOF {
		t.Fatalf("EOS: %v", err)
	}
}

func TestStreamRoundTripSplitTransport(t *testing.T) {
	stream := buildStream(t, func(w *msrf.Writer) {
		writePayload(t, w, msrf.NewRecordMeta(1, 0, 5), []byte("hello"))
		if err := w.WriteContainer(3, 7, 1); err != nil {
			t.Fatal(err)
		}
		writePayload(t, w, msrf.NewRecordMeta(3, 0, 300), bytes.Repeat([]byte{0x5A}, 300))
	})

	// Deliver one byte per Read call; the reader must reassemble frames
	// regardless of transport chunking.
	r := msrf.NewReader(&oneByteAtATime{data: stream})
	if err := r.Init(); err != nil {
		t.Fatal(err)
	}
	var count int
	for {
		_, chunk, err := r.ReadRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("record %d: %v", count, err)
		}
		if _, err := io.ReadAll(chunk); err != nil {
			t.Fatalf("payload %d: %v", count, err)
		}
		count++
	}
	if count != 3 {
		t.Fatalf("records = %d, want 3", count)
	}
}

type oneByteAtATime struct {
	data []byte
	off  int
}

func (r *oneByteAtATime) Read(p []byte) (int, error) {
	if r.off >= len(r.data) {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	p[0] = r.data[r.off]
	r.off++
	return 1, nil
}
