package liveview

import (
	"github.com/cwbudde/algo-ecg/ecg/session"
	"github.com/cwbudde/algo-ecg/ecg/view"
)

// Message types sent to clients.
const (
	TypeFrame  = "frame"
	TypeStatus = "status"
	TypeError  = "error"
)

// Series is one trace of a frame.
type Series struct {
	T    []float64 `json:"t"`
	V    []float64 `json:"v"`
	YMin float64   `json:"yMin"`
	YMax float64   `json:"yMax"`
}

// FrameMessage carries the visible windows of both traces.
type FrameMessage struct {
	Type     string  `json:"type"`
	Seq      uint64  `json:"seq"`
	Progress float64 `json:"progress"`
	XStart   float64 `json:"xStart"`
	XEnd     float64 `json:"xEnd"`
	Raw      Series  `json:"raw"`
	Filtered Series  `json:"filtered"`
}

// StatusMessage mirrors session.Status.
type StatusMessage struct {
	Type             string  `json:"type"`
	Loaded           bool    `json:"loaded"`
	Samples          int     `json:"samples"`
	Rate             float64 `json:"rate"`
	ApplicationCount int     `json:"applicationCount"`
	Filtered         bool    `json:"filtered"`
	Applying         bool    `json:"applying"`
	State            string  `json:"state"`
	Index            int     `json:"index"`
	Progress         float64 `json:"progress"`
	Speed            float64 `json:"speed"`
	DisplayWidth     float64 `json:"displayWidth"`
	YZoom            float64 `json:"yZoom"`
	Clients          int     `json:"clients"`
}

// ErrorMessage reports a rejected control message to the client that sent it.
type ErrorMessage struct {
	Type  string `json:"type"`
	Cmd   string `json:"cmd,omitempty"`
	Error string `json:"error"`
}

// Control is a client request. Value carries the argument of seek, speed,
// width and yzoom.
type Control struct {
	Cmd   string  `json:"cmd"`
	Value float64 `json:"value,omitempty"`
}

// Control commands.
const (
	CmdStart  = "start"
	CmdStop   = "stop"
	CmdSeek   = "seek"
	CmdSpeed  = "speed"
	CmdWidth  = "width"
	CmdYZoom  = "yzoom"
	CmdApply  = "apply"
	CmdReset  = "reset"
	CmdStatus = "status"
)

// NewFrameMessage converts a session frame, keeping at most maxPoints
// samples per trace. maxPoints <= 0 keeps all of them.
func NewFrameMessage(f session.Frame, maxPoints int) FrameMessage {
	return FrameMessage{
		Type:     TypeFrame,
		Seq:      f.Playback.Seq,
		Progress: f.Playback.Progress,
		XStart:   f.View.Raw.XStart,
		XEnd:     f.View.Raw.XEnd,
		Raw:      newSeries(f.View.Raw, maxPoints),
		Filtered: newSeries(f.View.Filtered, maxPoints),
	}
}

// NewStatusMessage converts a session status.
func NewStatusMessage(st session.Status) StatusMessage {
	return StatusMessage{
		Type:             TypeStatus,
		Loaded:           st.Loaded,
		Samples:          st.Samples,
		Rate:             st.Rate,
		ApplicationCount: st.ApplicationCount,
		Filtered:         st.Filtered,
		Applying:         st.Applying,
		State:            st.State.String(),
		Index:            st.Index,
		Progress:         st.Progress,
		Speed:            st.Speed,
		DisplayWidth:     st.DisplayWidth,
		YZoom:            st.YZoom,
	}
}

func newSeries(w view.Window, maxPoints int) Series {
	return Series{
		T:    decimate(w.T, maxPoints),
		V:    decimate(w.V, maxPoints),
		YMin: w.YMin,
		YMax: w.YMax,
	}
}

// decimate keeps every k-th sample so that at most maxPoints remain. The
// result is never nil so it encodes as an empty JSON array.
func decimate(x []float64, maxPoints int) []float64 {
	if maxPoints <= 0 || len(x) <= maxPoints {
		if x == nil {
			return []float64{}
		}
		return x
	}
	step := (len(x) + maxPoints - 1) / maxPoints
	out := make([]float64, 0, maxPoints)
	for i := 0; i < len(x); i += step {
		out = append(out, x[i])
	}
	return out
}
