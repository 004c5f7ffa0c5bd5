package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// StreamInterval throttles the MJPEG stream to about 15 fps.
const StreamInterval = 66 * time.Millisecond

// StreamHandler serves the rendered reaction images as MJPEG. Frames are
// only encoded while at least one client is connected.
type StreamHandler struct {
	mu      sync.Mutex
	clients int
	frame   []byte
	ready   chan struct{}
	closed  bool
	lastEnc time.Time
}

// NewStreamHandler creates a StreamHandler with no frame yet.
func NewStreamHandler() *StreamHandler {
	return &StreamHandler{ready: make(chan struct{})}
}

// PublishFrame encodes img as the latest JPEG frame.
func (h *StreamHandler) PublishFrame(img gocv.Mat) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || h.clients == 0 || img.Empty() {
		return
	}
	if time.Since(h.lastEnc) < StreamInterval {
		return
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return
	}
	h.frame = append(h.frame[:0:0], buf.GetBytes()...)
	buf.Close()
	h.lastEnc = time.Now()

	close(h.ready)
	h.ready = make(chan struct{})
}

// Close ends every open stream.
func (h *StreamHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		close(h.ready)
	}
}

// next waits for a frame newer than the previous call.
func (h *StreamHandler) next(done <-chan struct{}) ([]byte, bool) {
	h.mu.Lock()
	ready := h.ready
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return nil, false
	}

	select {
	case <-done:
		return nil, false
	case <-ready:
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	return h.frame, true
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	h.clients++
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.clients--
		h.mu.Unlock()
	}()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	for {
		frame, ok := h.next(r.Context().Done())
		if !ok {
			return
		}

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(frame))
		w.Write(frame)
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
