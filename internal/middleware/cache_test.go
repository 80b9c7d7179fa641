package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`{"items":[]}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(bs)
	if !ok {
		t.Fatal("decodePayload rejected its own encoding")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if got := gotHdr.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if string(gotBody) != string(body) {
		t.Errorf("body = %q, want %q", gotBody, body)
	}
}

func TestDecodePayloadRejectsTruncated(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, make([]byte, 8)} {
		if _, _, _, ok := decodePayload(bs[:]); ok && len(bs) < 8 {
			t.Errorf("decodePayload accepted %d bytes", len(bs))
		}
	}
	// Header length pointing past the buffer.
	bs, _ := encodePayload(200, http.Header{}, nil)
	bs[7] = 0xFF
	if _, _, _, ok := decodePayload(bs); ok {
		t.Error("decodePayload accepted corrupt header length")
	}
}

func TestRecordingWriterHonorsLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &recordingWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	if _, err := w.Write([]byte("abcdef")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := w.buf.String(); got != "abcd" {
		t.Errorf("captured = %q, want %q", got, "abcd")
	}
	// The client still receives the full body.
	if got := rec.Body.String(); got != "abcdef" {
		t.Errorf("forwarded = %q, want %q", got, "abcdef")
	}
	if w.size != 6 {
		t.Errorf("size = %d, want 6", w.size)
	}
}
