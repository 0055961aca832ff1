package activitylog

import (
	"encoding/json"
	"os"

	"github.com/8ff/gestures"
	"github.com/8ff/gestures/prop"
)

// document is the top-level on-disk shape. The key names are a
// compatibility contract with the existing log corpus and its replay
// tooling; renaming any of them breaks recorded sessions.
type document struct {
	Version          int                    `json:"version"`
	GesturesVersion  string                 `json:"gesturesVersion"`
	SessionID        string                 `json:"sessionId"`
	Properties       map[string]interface{} `json:"properties"`
	HardwareProperties hwPropsJSON          `json:"hardwareProperties"`
	Entries          []entryJSON            `json:"entries"`
}

type hwPropsJSON struct {
	Left                     float64 `json:"left"`
	Top                      float64 `json:"top"`
	Right                    float64 `json:"right"`
	Bottom                   float64 `json:"bottom"`
	ResX                     float64 `json:"resX"`
	ResY                     float64 `json:"resY"`
	ScreenDPI                float64 `json:"screenDpi"`
	OrientationMinimum       int     `json:"orientationMinimum"`
	OrientationMaximum       int     `json:"orientationMaximum"`
	MaxFingerCount           int     `json:"maxFingerCount"`
	MaxTouchCount            int     `json:"maxTouchCount"`
	T5R2                     bool    `json:"t5r2"`
	SemiMT                   bool    `json:"semiMt"`
	IsButtonPad              bool    `json:"isButtonPad"`
	HasWheel                 bool    `json:"hasWheel"`
	WheelIsHiRes             bool    `json:"wheelIsHiRes"`
	HapticPad                bool    `json:"hapticPad"`
}

func toHWPropsJSON(p gestures.HardwareProperties) hwPropsJSON {
	return hwPropsJSON{
		Left: p.Left, Top: p.Top, Right: p.Right, Bottom: p.Bottom,
		ResX: p.ResX, ResY: p.ResY, ScreenDPI: p.ScreenDPI,
		OrientationMinimum: p.OrientationMinimum, OrientationMaximum: p.OrientationMaximum,
		MaxFingerCount: p.MaxFingerCount, MaxTouchCount: p.MaxTouchCount,
		T5R2: p.T5R2, SemiMT: p.SemiMT, IsButtonPad: p.IsButtonPad,
		HasWheel: p.HasWheel, WheelIsHiRes: p.WheelIsHighResolution, HapticPad: p.HapticPad,
	}
}

func (h hwPropsJSON) toHWProps() gestures.HardwareProperties {
	return gestures.HardwareProperties{
		Left: h.Left, Top: h.Top, Right: h.Right, Bottom: h.Bottom,
		ResX: h.ResX, ResY: h.ResY, ScreenDPI: h.ScreenDPI,
		OrientationMinimum: h.OrientationMinimum, OrientationMaximum: h.OrientationMaximum,
		MaxFingerCount: h.MaxFingerCount, MaxTouchCount: h.MaxTouchCount,
		T5R2: h.T5R2, SemiMT: h.SemiMT, IsButtonPad: h.IsButtonPad,
		HasWheel: h.HasWheel, WheelIsHighResolution: h.WheelIsHiRes, HapticPad: h.HapticPad,
	}
}

type fingerJSON struct {
	TouchMajor  float64 `json:"touchMajor"`
	TouchMinor  float64 `json:"touchMinor"`
	WidthMajor  float64 `json:"widthMajor"`
	WidthMinor  float64 `json:"widthMinor"`
	Pressure    float64 `json:"pressure"`
	Orientation float64 `json:"orientation"`
	X           float64 `json:"positionX"`
	Y           float64 `json:"positionY"`
	TrackingID  int16   `json:"trackingId"`
	Flags       uint32  `json:"flags"`
}

type hwStateJSON struct {
	Timestamp     float64      `json:"timestamp"`
	ButtonsDown   uint32       `json:"buttonsDown"`
	Fingers       []fingerJSON `json:"fingers"`
	TouchCnt      int          `json:"touchCnt"`
	RelX          float64      `json:"relX"`
	RelY          float64      `json:"relY"`
	RelWheel      float64      `json:"relWheel"`
	RelWheelHiRes float64      `json:"relWheelHiRes"`
	RelHWheel     float64      `json:"relHWheel"`
	MscTimestamp  float64      `json:"mscTimestamp"`
}

func toHWStateJSON(hs gestures.HardwareState) hwStateJSON {
	fj := make([]fingerJSON, len(hs.Fingers))
	for i, f := range hs.Fingers {
		fj[i] = fingerJSON{
			TouchMajor: f.TouchMajor, TouchMinor: f.TouchMinor,
			WidthMajor: f.WidthMajor, WidthMinor: f.WidthMinor,
			Pressure: f.Pressure, Orientation: f.Orientation,
			X: f.X, Y: f.Y, TrackingID: f.TrackingID, Flags: uint32(f.Flags),
		}
	}
	return hwStateJSON{
		Timestamp: hs.Timestamp.Seconds(), ButtonsDown: uint32(hs.ButtonsDown),
		Fingers: fj, TouchCnt: hs.TouchCnt,
		RelX: hs.RelX, RelY: hs.RelY, RelWheel: hs.RelWheel,
		RelWheelHiRes: hs.RelWheelHiRes, RelHWheel: hs.RelHWheel,
		MscTimestamp: hs.MscTimestamp,
	}
}

func (h hwStateJSON) toHWState() gestures.HardwareState {
	fingers := make([]gestures.FingerState, len(h.Fingers))
	for i, f := range h.Fingers {
		fingers[i] = gestures.FingerState{
			TouchMajor: f.TouchMajor, TouchMinor: f.TouchMinor,
			WidthMajor: f.WidthMajor, WidthMinor: f.WidthMinor,
			Pressure: f.Pressure, Orientation: f.Orientation,
			X: f.X, Y: f.Y, TrackingID: f.TrackingID,
			Flags: gestures.FingerFlags(f.Flags),
		}
	}
	touchCnt := h.TouchCnt
	if touchCnt < len(fingers) {
		touchCnt = len(fingers)
	}
	return gestures.HardwareState{
		Timestamp: gestures.Time(h.Timestamp), ButtonsDown: gestures.ButtonFlags(h.ButtonsDown),
		FingerCnt: len(fingers), TouchCnt: touchCnt, Fingers: fingers,
		RelX: h.RelX, RelY: h.RelY, RelWheel: h.RelWheel,
		RelWheelHiRes: h.RelWheelHiRes, RelHWheel: h.RelHWheel,
		MscTimestamp: h.MscTimestamp,
	}
}

type gestureJSON struct {
	Type        string  `json:"type"`
	StartTime   float64 `json:"startTime"`
	EndTime     float64 `json:"endTime"`
	DX          float64 `json:"dx,omitempty"`
	DY          float64 `json:"dy,omitempty"`
	OrdinalDX   float64 `json:"ordinalDx,omitempty"`
	OrdinalDY   float64 `json:"ordinalDy,omitempty"`
	TickDX120   int     `json:"tick120Dx,omitempty"`
	TickDY120   int     `json:"tick120Dy,omitempty"`
	DZ          float64 `json:"dz,omitempty"`
	ButtonsDown uint32  `json:"buttonsDown,omitempty"`
	ButtonsUp   uint32  `json:"buttonsUp,omitempty"`
	IsTap       bool    `json:"isTap,omitempty"`
	FlingState  int     `json:"flingState,omitempty"`
	MetricsType int     `json:"metricsType,omitempty"`
	Metrics1    float64 `json:"metrics1,omitempty"`
	Metrics2    float64 `json:"metrics2,omitempty"`
}

func toGestureJSON(g gestures.Gesture) gestureJSON {
	return gestureJSON{
		Type: g.Type.String(), StartTime: g.StartTime.Seconds(), EndTime: g.EndTime.Seconds(),
		DX: g.Move.DX, DY: g.Move.DY, OrdinalDX: g.Move.OrdinalDX, OrdinalDY: g.Move.OrdinalDY,
		TickDX120: g.TickDX120, TickDY120: g.TickDY120, DZ: g.DZ,
		ButtonsDown: uint32(g.ButtonsDown), ButtonsUp: uint32(g.ButtonsUp), IsTap: g.IsTap,
		FlingState: int(g.FlingState), MetricsType: int(g.MetricsType),
		Metrics1: g.Metrics1, Metrics2: g.Metrics2,
	}
}

var gestureTypeByName = map[string]gestures.GestureType{
	"Null": gestures.GestureTypeNull, "ContactInitiated": gestures.GestureTypeContactInitiated,
	"Move": gestures.GestureTypeMove, "Scroll": gestures.GestureTypeScroll,
	"MouseWheel": gestures.GestureTypeMouseWheel, "Pinch": gestures.GestureTypePinch,
	"ButtonsChange": gestures.GestureTypeButtonsChange, "Fling": gestures.GestureTypeFling,
	"Swipe": gestures.GestureTypeSwipe, "SwipeLift": gestures.GestureTypeSwipeLift,
	"FourFingerSwipe": gestures.GestureTypeFourFingerSwipe, "FourFingerSwipeLift": gestures.GestureTypeFourFingerSwipeLift,
	"Metrics": gestures.GestureTypeMetrics,
}

func (g gestureJSON) toGesture() gestures.Gesture {
	return gestures.Gesture{
		Type: gestureTypeByName[g.Type], StartTime: gestures.Time(g.StartTime), EndTime: gestures.Time(g.EndTime),
		Move: gestures.GestureMove{DX: g.DX, DY: g.DY, OrdinalDX: g.OrdinalDX, OrdinalDY: g.OrdinalDY},
		TickDX120: g.TickDX120, TickDY120: g.TickDY120, DZ: g.DZ,
		ButtonsDown: gestures.ButtonFlags(g.ButtonsDown), ButtonsUp: gestures.ButtonFlags(g.ButtonsUp), IsTap: g.IsTap,
		FlingState: gestures.FlingState(g.FlingState), MetricsType: gestures.MetricsType(g.MetricsType),
		Metrics1: g.Metrics1, Metrics2: g.Metrics2,
	}
}

type propChangeJSON struct {
	Name  string      `json:"name"`
	Kind  int         `json:"kind"`
	Value interface{} `json:"value"`
}

func valueToJSONPayload(v prop.Value) interface{} {
	switch v.Kind {
	case prop.KindBool:
		return v.Bool
	case prop.KindInt:
		return v.Int
	case prop.KindDouble:
		return v.Double
	case prop.KindString:
		return v.String
	case prop.KindBoolArray:
		return v.BoolArray
	case prop.KindIntArray:
		return v.IntArray
	case prop.KindDoubleArray:
		return v.DoubleArray
	default:
		return nil
	}
}

type entryJSON struct {
	Type       string           `json:"type"`
	HWState    *hwStateJSON     `json:"hwState,omitempty"`
	TimerTime  float64          `json:"timerTime,omitempty"`
	TimerTimeout float64        `json:"timerTimeout,omitempty"`
	Gesture    *gestureJSON     `json:"gesture,omitempty"`
	Prop       *propChangeJSON  `json:"propChange,omitempty"`
	Debug1     float64          `json:"debug1,omitempty"`
	Debug2     float64          `json:"debug2,omitempty"`
}

func toEntryJSON(e Entry) entryJSON {
	out := entryJSON{Type: e.Kind.String()}
	switch e.Kind {
	case EntryHardwareState, EntryDebugHardwareStatePre, EntryDebugHardwareStatePost:
		hj := toHWStateJSON(e.HWState)
		out.HWState = &hj
	case EntryTimerFire, EntryDebugHandleTimerPre, EntryDebugHandleTimerPost:
		out.TimerTime = e.TimerTime.Seconds()
	case EntryTimerRequest:
		out.TimerTime = e.TimerTime.Seconds()
		out.TimerTimeout = e.TimerTimeout.Seconds()
	case EntryGesture, EntryDebugGestureConsume, EntryDebugGestureProduce:
		gj := toGestureJSON(e.Gesture)
		out.Gesture = &gj
	case EntryPropChange:
		out.Prop = &propChangeJSON{Name: e.Prop.Name, Kind: int(e.Prop.Value.Kind), Value: valueToJSONPayload(e.Prop.Value)}
	case EntryAccelDebug, EntryTimestampDebug:
		out.Debug1, out.Debug2 = e.Debug1, e.Debug2
	}
	return out
}

var entryKindByName = func() map[string]EntryKind {
	m := make(map[string]EntryKind)
	for _, k := range []EntryKind{
		EntryHardwareState, EntryTimerFire, EntryTimerRequest, EntryGesture, EntryPropChange,
		EntryDebugHardwareStatePre, EntryDebugHardwareStatePost, EntryDebugGestureConsume,
		EntryDebugGestureProduce, EntryDebugHandleTimerPre, EntryDebugHandleTimerPost,
		EntryAccelDebug, EntryTimestampDebug,
	} {
		m[k.String()] = k
	}
	return m
}()

// Encode walks the ring front-to-back and produces the JSON document
// described in hwProps and honoredProps are snapshotted
// into the header.
func (l *Log) Encode(hwProps gestures.HardwareProperties, honoredProps map[string]prop.Value, gesturesVersion string) ([]byte, error) {
	props := make(map[string]interface{}, len(honoredProps))
	for name, v := range honoredProps {
		props[name] = valueToJSONPayload(v)
	}
	entries := l.Entries()
	ej := make([]entryJSON, len(entries))
	for i, e := range entries {
		ej[i] = toEntryJSON(e)
	}
	doc := document{
		Version: 1, GesturesVersion: gesturesVersion, SessionID: l.sessionID.String(),
		Properties: props, HardwareProperties: toHWPropsJSON(hwProps), Entries: ej,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Dump encodes the log and writes it atomically (write-to-temp then
// rename) to path.
func (l *Log) Dump(path string, hwProps gestures.HardwareProperties, honoredProps map[string]prop.Value, gesturesVersion string) error {
	data, err := l.Encode(hwProps, honoredProps, gesturesVersion)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
