// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msrf_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"code.hybscloud.com/msrf"
)

func TestWriterInitHeaderBytes(t *testing.T) {
	var buf bytes.Buffer
	w := msrf.NewWriter(&buf)
	if err := w.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	want := []byte{'M', 'S', 'R', 'F', 0x00, 0x00, 0x00}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("header = % X, want % X", buf.Bytes(), want)
	}
}

func TestWriterInitNil(t *testing.T) {
	w := msrf.NewWriter(nil)
	if err := w.Init(); !errors.Is(err, msrf.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestWriterInitUnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	w := msrf.NewWriter(&buf, msrf.WithVersion(9))
	if err := w.Init(); !errors.Is(err, msrf.ErrVersion) {
		t.Fatalf("err = %v, want ErrVersion", err)
	}
	if buf.Len() != 0 {
		t.Errorf("%d bytes written despite failed init", buf.Len())
	}
}

func TestWriterBeforeInit(t *testing.T) {
	var buf bytes.Buffer
	w := msrf.NewWriter(&buf)
	if _, err := w.WriteRecord(msrf.NewRecordMeta(1, 0, 0)); !errors.Is(err, msrf.ErrInvalidArgument) {
		t.Fatalf("WriteRecord: err = %v, want ErrInvalidArgument", err)
	}
	if err := w.Finish(); !errors.Is(err, msrf.ErrInvalidArgument) {
		t.Fatalf("Finish: err = %v, want ErrInvalidArgument", err)
	}
}

func TestWriterRejectsEOSMeta(t *testing.T) {
	var buf bytes.Buffer
	w := msrf.NewWriter(&buf)
	if err := w.Init(); err != nil {
		t.Fatal(err)
	}
	_, err := w.WriteRecord(msrf.RecordMeta{ID: msrf.RecordID{Source: msrf.SourceEOS}})
	if !errors.Is(err, msrf.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestWriterRejectsContainedWithoutFlag(t *testing.T) {
	var buf bytes.Buffer
	w := msrf.NewWriter(&buf)
	if err := w.Init(); err != nil {
		t.Fatal(err)
	}
	meta := msrf.NewRecordMeta(1, 2, 0)
	meta.Contained = 3
	if _, err := w.WriteRecord(meta); !errors.Is(err, msrf.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestWriterSinkPadding(t *testing.T) {
	var buf bytes.Buffer
	w := msrf.NewWriter(&buf)
	if err := w.Init(); err != nil {
		t.Fatal(err)
	}
	sink, err := w.WriteRecord(msrf.NewRecordMeta(1, 0, 8))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sink.Write([]byte{0xDE, 0xAD, 0xBE}); err != nil {
		t.Fatal(err)
	}
	if got := sink.Len(); got != 5 {
		t.Errorf("sink remainder = %d, want 5", got)
	}
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}

	want := []byte{
		'M', 'S', 'R', 'F', 0x00, 0x00, 0x00, // header
		0x01, 0x00, 0x00, 0x00, 0x11, // meta: source 1, type 0, len 8
		0xDE, 0xAD, 0xBE, // written payload
		0x00, 0x00, 0x00, 0x00, 0x00, // zero fill
		0x00,       // guard
		0xFF, 0xFF, // EOS
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("stream = % X, want % X", buf.Bytes(), want)
	}
}

func TestWriterSinkClipping(t *testing.T) {
	var buf bytes.Buffer
	w := msrf.NewWriter(&buf)
	if err := w.Init(); err != nil {
		t.Fatal(err)
	}
	sink, err := w.WriteRecord(msrf.NewRecordMeta(1, 0, 2))
	if err != nil {
		t.Fatal(err)
	}
	n, err := sink.Write([]byte{1, 2, 3, 4, 5})
	if n != 2 || !errors.Is(err, msrf.ErrTooLong) {
		t.Fatalf("Write = %d, %v, want 2, ErrTooLong", n, err)
	}
	// Writes after the clip keep failing but never break framing.
	if n, err := sink.Write([]byte{6}); n != 0 || !errors.Is(err, msrf.ErrTooLong) {
		t.Fatalf("Write = %d, %v, want 0, ErrTooLong", n, err)
	}
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}

	r := msrf.NewReader(bytes.NewReader(buf.Bytes()))
	if err := r.Init(); err != nil {
		t.Fatalf("read back init: %v", err)
	}
	_, chunk, err := r.ReadRecord()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	payload, _ := io.ReadAll(chunk)
	if !bytes.Equal(payload, []byte{1, 2}) {
		t.Errorf("payload = % X, want 01 02", payload)
	}
	if _, _, err := r.ReadRecord(); err != io.EOF {
		t.Fatalf("EOS: %v", err)
	}
}

func TestWriterAutoClosesPreviousSink(t *testing.T) {
	var buf bytes.Buffer
	w := msrf.NewWriter(&buf)
	if err := w.Init(); err != nil {
		t.Fatal(err)
	}
	sink, err := w.WriteRecord(msrf.NewRecordMeta(1, 0, 4))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sink.Write([]byte{0x11}); err != nil {
		t.Fatal(err)
	}
	// Start the next record without closing the first sink.
	sink2, err := w.WriteRecord(msrf.NewRecordMeta(1, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sink2.Write([]byte{0x22}); err != nil {
		t.Fatal(err)
	}
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}

	r := msrf.NewReader(bytes.NewReader(buf.Bytes()))
	if err := r.Init(); err != nil {
		t.Fatal(err)
	}
	_, chunk, err := r.ReadRecord()
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	payload, _ := io.ReadAll(chunk)
	if !bytes.Equal(payload, []byte{0x11, 0x00, 0x00, 0x00}) {
		t.Errorf("first payload = % X, want 11 00 00 00", payload)
	}
	_, chunk, err = r.ReadRecord()
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	payload, _ = io.ReadAll(chunk)
	if !bytes.Equal(payload, []byte{0x22}) {
		t.Errorf("second payload = % X, want 22", payload)
	}
}

func TestWriterFinishUnderflow(t *testing.T) {
	var buf bytes.Buffer
	w := msrf.NewWriter(&buf)
	if err := w.Init(); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteContainer(3, 7, 2); err != nil {
		t.Fatal(err)
	}
	sink, err := w.WriteRecord(msrf.NewRecordMeta(3, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Finish(); !errors.Is(err, msrf.ErrUnexpectedEOS) {
		t.Fatalf("err = %v, want ErrUnexpectedEOS", err)
	}
}

func TestWriterFinishClosesSatisfiedContainer(t *testing.T) {
	var buf bytes.Buffer
	w := msrf.NewWriter(&buf)
	if err := w.Init(); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteContainer(3, 7, 1); err != nil {
		t.Fatal(err)
	}
	sink, err := w.WriteRecord(msrf.NewRecordMeta(3, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
}

func TestWriterPostFinish(t *testing.T) {
	var buf bytes.Buffer
	w := msrf.NewWriter(&buf)
	if err := w.Init(); err != nil {
		t.Fatal(err)
	}
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}
	if _, err := w.WriteRecord(msrf.NewRecordMeta(1, 0, 0)); !errors.Is(err, msrf.ErrIsEOS) {
		t.Fatalf("WriteRecord: err = %v, want ErrIsEOS", err)
	}
	if err := w.Finish(); !errors.Is(err, msrf.ErrIsEOS) {
		t.Fatalf("Finish: err = %v, want ErrIsEOS", err)
	}
}

func TestWriterEmptyStream(t *testing.T) {
	var buf bytes.Buffer
	w := msrf.NewWriter(&buf)
	if err := w.Init(); err != nil {
		t.Fatal(err)
	}
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}
	want := []byte{'M', 'S', 'R', 'F', 0x00, 0x00, 0x00, 0xFF, 0xFF}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("stream = % X, want % X", buf.Bytes(), want)
	}
}
