// Package capi is the thin C ABI façade for embedding hosts (e.g. a
// Chrome-OS-style input stack) that cannot link Go code directly. It wraps exactly one *gestures.GestureInterpreter
// per handle and never runs core logic itself — every exported function
// is a direct translation of a façade call, plus the struct marshaling
// C needs.
//
// Build with `go build -buildmode=c-archive` (or c-shared) from this
// directory; cgo generates the matching header.
package capi

/*
#include <stdint.h>
#include <stdlib.h>

// gestures_gesture_t mirrors gestures.Gesture's C-visible fields.
typedef struct {
    int type_;
    double start_time;
    double end_time;
    double dx, dy;
    double ordinal_dx, ordinal_dy;
    int tick_120ths_dx, tick_120ths_dy;
    double dz;
    unsigned int buttons_down, buttons_up;
    int is_tap;
    int fling_state;
    int metrics_type;
    double metrics_1, metrics_2;
} gestures_gesture_t;

typedef struct {
    double touch_major, touch_minor;
    double width_major, width_minor;
    double pressure;
    double orientation;
    double x, y;
    short tracking_id;
    unsigned int flags;
} gestures_finger_state_t;

typedef struct {
    double timestamp;
    unsigned int buttons_down;
    int finger_cnt;
    int touch_cnt;
    gestures_finger_state_t *fingers;
    double rel_x, rel_y;
    double rel_wheel, rel_wheel_hi_res, rel_hwheel;
    double msc_timestamp;
} gestures_hwstate_t;

typedef struct {
    double left, top, right, bottom;
    double res_x, res_y;
    double screen_dpi;
    int orientation_minimum, orientation_maximum;
    int max_finger_count, max_touch_count;
    int t5r2, semi_mt, is_button_pad, has_wheel, wheel_is_hi_res, haptic_pad;
} gestures_hwprops_t;

typedef void (*gestures_callback_t)(gestures_gesture_t *gesture, void *user_data);

// Host-supplied timer provider: one
// timer per chain. create returns an opaque handle the host manages;
// set and cancel act on it, and free releases it. The core only ever holds one such handle
// per GestureInterpreter handle.
typedef void *(*gestures_timer_create_fn)(void *data);
typedef void (*gestures_timer_set_fn)(void *timer, double timeout_s, void *data);
typedef void (*gestures_timer_cancel_fn)(void *timer, void *data);
typedef void (*gestures_timer_free_fn)(void *timer, void *data);

// Host-supplied property provider.
typedef void (*gestures_prop_create_fn)(const char *name, int kind, void *data);
typedef void (*gestures_prop_free_fn)(void *data);

static void gestures_call_callback(gestures_callback_t fn, gestures_gesture_t *g, void *user_data) {
    if (fn != NULL) {
        fn(g, user_data);
    }
}

static void *gestures_call_timer_create(gestures_timer_create_fn fn, void *data) {
    if (fn == NULL) {
        return NULL;
    }
    return fn(data);
}

static void gestures_call_timer_set(gestures_timer_set_fn fn, void *timer, double timeout_s, void *data) {
    if (fn != NULL) {
        fn(timer, timeout_s, data);
    }
}

static void gestures_call_timer_cancel(gestures_timer_cancel_fn fn, void *timer, void *data) {
    if (fn != NULL) {
        fn(timer, data);
    }
}

static void gestures_call_timer_free(gestures_timer_free_fn fn, void *timer, void *data) {
    if (fn != NULL) {
        fn(timer, data);
    }
}
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/8ff/gestures"
)

// Device class constants, matching device_class table.
const (
	DeviceClassTouchpad        = 0
	DeviceClassTouchscreen     = 1
	DeviceClassMouse           = 2
	DeviceClassPointingStick   = 3
	DeviceClassMultitouchMouse = 4
)

// minVersion/maxVersion bound the version handshake:
// gestures_new_gesture_interpreter's version argument must lie in
// [1, 1].
const (
	minVersion = 1
	maxVersion = 1
)

// handle is the Go-side state behind one opaque C handle. Go pointers
// are never handed to C directly (cgo forbids storing a Go pointer
// inside C memory across calls); instead C receives a small integer
// key into this registry.
type handle struct {
	mu sync.Mutex

	gi       *gestures.GestureInterpreter
	hwProps  gestures.HardwareProperties
	class    int

	cb       C.gestures_callback_t
	cbData   unsafe.Pointer

	timerCreate C.gestures_timer_create_fn
	timerSet    C.gestures_timer_set_fn
	timerCancel C.gestures_timer_cancel_fn
	timerFree   C.gestures_timer_free_fn
	timerData   unsafe.Pointer
	timerHandle unsafe.Pointer
	haveTimer   bool

	propCreate C.gestures_prop_create_fn
	propFree   C.gestures_prop_free_fn
	propData   unsafe.Pointer
}

var (
	registryMu sync.Mutex
	registry   = make(map[C.int64_t]*handle)
	nextID     C.int64_t
)

func register(h *handle) C.int64_t {
	registryMu.Lock()
	defer registryMu.Unlock()
	nextID++
	registry[nextID] = h
	return nextID
}

func lookup(id C.int64_t) *handle {
	registryMu.Lock()
	defer registryMu.Unlock()
	return registry[id]
}

func unregister(id C.int64_t) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, id)
}

func deviceClassOf(v int) gestures.DeviceClass {
	switch v {
	case DeviceClassTouchscreen:
		return gestures.DeviceTouchscreen
	case DeviceClassMouse:
		return gestures.DeviceMouse
	case DeviceClassPointingStick:
		return gestures.DevicePointingStick
	case DeviceClassMultitouchMouse:
		return gestures.DeviceMultitouchMouse
	default:
		return gestures.DeviceTouchpad
	}
}

//export gestures_new_gesture_interpreter
func gestures_new_gesture_interpreter(version C.int) C.int64_t {
	if version < minVersion || version > maxVersion {
		return 0
	}
	h := &handle{}
	return register(h)
}

//export gestures_delete_gesture_interpreter
func gestures_delete_gesture_interpreter(id C.int64_t) {
	h := lookup(id)
	if h == nil {
		return
	}
	h.mu.Lock()
	if h.haveTimer && h.timerFree != nil {
		C.gestures_call_timer_free(h.timerFree, h.timerHandle, h.timerData)
	}
	h.mu.Unlock()
	unregister(id)
}

//export gestures_initialize
func gestures_initialize(id C.int64_t, deviceClass C.int) {
	h := lookup(id)
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.class = int(deviceClass)
	h.gi = gestures.NewGestureInterpreter(deviceClassOf(h.class), nil)
}

func hwPropsFromC(p *C.gestures_hwprops_t) gestures.HardwareProperties {
	return gestures.HardwareProperties{
		Left: float64(p.left), Top: float64(p.top), Right: float64(p.right), Bottom: float64(p.bottom),
		ResX: float64(p.res_x), ResY: float64(p.res_y), ScreenDPI: float64(p.screen_dpi),
		OrientationMinimum: int(p.orientation_minimum), OrientationMaximum: int(p.orientation_maximum),
		MaxFingerCount: int(p.max_finger_count), MaxTouchCount: int(p.max_touch_count),
		T5R2: p.t5r2 != 0, SemiMT: p.semi_mt != 0, IsButtonPad: p.is_button_pad != 0,
		HasWheel: p.has_wheel != 0, WheelIsHighResolution: p.wheel_is_hi_res != 0, HapticPad: p.haptic_pad != 0,
	}
}

//export gestures_set_hardware_properties
func gestures_set_hardware_properties(id C.int64_t, props *C.gestures_hwprops_t) {
	h := lookup(id)
	if h == nil || h.gi == nil || props == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hwProps = hwPropsFromC(props)
	h.gi.SetHardwareProperties(h.hwProps, gestures.GestureConsumerFunc(func(g gestures.Gesture) {
		h.deliver(g)
	}))
}

func (h *handle) deliver(g gestures.Gesture) {
	if h.cb == nil {
		return
	}
	cg := C.gestures_gesture_t{
		type_:      C.int(g.Type),
		start_time: C.double(g.StartTime.Seconds()),
		end_time:   C.double(g.EndTime.Seconds()),
		dx:         C.double(g.Move.DX), dy: C.double(g.Move.DY),
		ordinal_dx: C.double(g.Move.OrdinalDX), ordinal_dy: C.double(g.Move.OrdinalDY),
		tick_120ths_dx: C.int(g.TickDX120), tick_120ths_dy: C.int(g.TickDY120),
		dz:           C.double(g.DZ),
		buttons_down: C.uint(g.ButtonsDown), buttons_up: C.uint(g.ButtonsUp),
		is_tap:       boolToC(g.IsTap),
		fling_state:  C.int(g.FlingState),
		metrics_type: C.int(g.MetricsType),
		metrics_1:    C.double(g.Metrics1), metrics_2: C.double(g.Metrics2),
	}
	C.gestures_call_callback(h.cb, &cg, h.cbData)
}

func boolToC(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

func fingersFromC(arr *C.gestures_finger_state_t, n int) []gestures.FingerState {
	if n == 0 || arr == nil {
		return nil
	}
	slice := unsafe.Slice(arr, n)
	out := make([]gestures.FingerState, n)
	for i, f := range slice {
		out[i] = gestures.FingerState{
			TouchMajor: float64(f.touch_major), TouchMinor: float64(f.touch_minor),
			WidthMajor: float64(f.width_major), WidthMinor: float64(f.width_minor),
			Pressure: float64(f.pressure), Orientation: float64(f.orientation),
			X: float64(f.x), Y: float64(f.y), TrackingID: int16(f.tracking_id),
			Flags: gestures.FingerFlags(f.flags),
		}
	}
	return out
}

//export gestures_push_hardware_state
func gestures_push_hardware_state(id C.int64_t, state *C.gestures_hwstate_t) C.double {
	h := lookup(id)
	if h == nil || h.gi == nil || state == nil {
		return C.double(gestures.NoDeadline)
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	hs := gestures.HardwareState{
		Timestamp:   gestures.Time(state.timestamp),
		ButtonsDown: gestures.ButtonFlags(state.buttons_down),
		FingerCnt:   int(state.finger_cnt),
		TouchCnt:    int(state.touch_cnt),
		Fingers:     fingersFromC(state.fingers, int(state.finger_cnt)),
		RelX:        float64(state.rel_x), RelY: float64(state.rel_y),
		RelWheel: float64(state.rel_wheel), RelWheelHiRes: float64(state.rel_wheel_hi_res),
		RelHWheel: float64(state.rel_hwheel), MscTimestamp: float64(state.msc_timestamp),
	}
	timeout := h.gi.PushHardwareState(&hs)
	h.rearmTimer(hs.Timestamp, timeout)
	return C.double(timeout)
}

// rearmTimer registers timeout with the host's timer provider, if one
// is attached. There is exactly one outstanding timer per chain, so a
// fresh request cancels and replaces any pending one rather than
// creating a second.
func (h *handle) rearmTimer(now gestures.Time, timeout gestures.Duration) {
	if h.timerCreate == nil || h.timerSet == nil {
		return
	}
	if !h.haveTimer {
		h.timerHandle = C.gestures_call_timer_create(h.timerCreate, h.timerData)
		h.haveTimer = h.timerHandle != nil
	}
	if !h.haveTimer {
		return
	}
	if timeout.HasDeadline() {
		C.gestures_call_timer_set(h.timerSet, h.timerHandle, C.double(timeout.Seconds()), h.timerData)
	} else if h.timerCancel != nil {
		C.gestures_call_timer_cancel(h.timerCancel, h.timerHandle, h.timerData)
	}
}

//export gestures_timer_fired
func gestures_timer_fired(id C.int64_t, now C.double) C.double {
	h := lookup(id)
	if h == nil || h.gi == nil {
		return C.double(gestures.NoDeadline)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	timeout := h.gi.HandleTimer(gestures.Time(now))
	h.rearmTimer(gestures.Time(now), timeout)
	return C.double(timeout)
}

//export gestures_set_callback
func gestures_set_callback(id C.int64_t, fn C.gestures_callback_t, userData unsafe.Pointer) {
	h := lookup(id)
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cb = fn
	h.cbData = userData
}

//export gestures_set_timer_provider
func gestures_set_timer_provider(id C.int64_t, create C.gestures_timer_create_fn, set C.gestures_timer_set_fn, cancel C.gestures_timer_cancel_fn, free C.gestures_timer_free_fn, data unsafe.Pointer) {
	h := lookup(id)
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.timerCreate, h.timerSet, h.timerCancel, h.timerFree, h.timerData = create, set, cancel, free, data
}

//export gestures_set_prop_provider
func gestures_set_prop_provider(id C.int64_t, create C.gestures_prop_create_fn, free C.gestures_prop_free_fn, data unsafe.Pointer) {
	h := lookup(id)
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.propCreate, h.propFree, h.propData = create, free, data
}

//export gestures_clear
func gestures_clear(id C.int64_t) {
	h := lookup(id)
	if h == nil || h.gi == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gi.Clear()
}
