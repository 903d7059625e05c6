// Package ecg holds the error kinds shared by the ECG filtering and playback
// packages below it.
//
// The sub-packages split the work into a signal buffer (signalbuf), the
// three-stage filter cascade (cascade), the playback cursor and its ticker
// (playback), the view window calculator (view) and a session that exposes
// them as one control surface (session). Recording I/O and the websocket
// live view sit on top in recording and liveview.
package ecg
