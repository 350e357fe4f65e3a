package core

import (
	"sync"
	"sync/atomic"
)

type EventContext struct {
	Data struct {
		U32 [4]uint32
		F32 [4]float32
		S   string
	}
}

type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	/* Context usage:
	 * u32 width = data.U32[0];
	 * u32 height = data.U32[1];
	 */
	EVENT_CODE_RESIZED SystemEventCode = 0x02

	/* Context usage:
	 * string shader name = data.S;
	 */
	EVENT_CODE_SHADER_RELOADED SystemEventCode = 0x03

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventSystemState struct {
	mutex      sync.RWMutex
	registered map[SystemEventCode][]*registeredEvent
}

// Read from any goroutine that fires events, e.g. a signal handler.
var eventState atomic.Pointer[eventSystemState]

// FnOnEvent handles a fired event. Returning true marks the event handled and
// stops it from reaching later listeners.
type FnOnEvent func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool

func EventInitialize() bool {
	return eventState.CompareAndSwap(nil, &eventSystemState{
		registered: make(map[SystemEventCode][]*registeredEvent),
	})
}

func EventShutdown() error {
	eventState.Store(nil)
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. A listener
 * can be registered only once per code; a duplicate returns false.
 * @param code The event code to listen for.
 * @param listener A pointer to a listener instance. Can be nil.
 * @param onEvent The callback invoked when the event code is fired.
 */
func EventRegister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	state := eventState.Load()
	if state == nil || code > MAX_EVENT_CODE {
		return false
	}
	state.mutex.Lock()
	defer state.mutex.Unlock()

	for _, e := range state.registered[code] {
		if e.listener == listener {
			return false
		}
	}
	state.registered[code] = append(state.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

// EventUnregister removes the registration of listener for code.
func EventUnregister(code SystemEventCode, listener interface{}) bool {
	state := eventState.Load()
	if state == nil {
		return false
	}
	state.mutex.Lock()
	defer state.mutex.Unlock()

	events := state.registered[code]
	for i, e := range events {
		if e.listener == listener {
			state.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code, in registration order. Safe
 * to call from any goroutine; callbacks run on the caller's goroutine.
 * @returns true if a listener handled the event.
 */
func EventFire(code SystemEventCode, sender interface{}, context EventContext) bool {
	state := eventState.Load()
	if state == nil {
		return false
	}
	state.mutex.RLock()
	events := make([]*registeredEvent, len(state.registered[code]))
	copy(events, state.registered[code])
	state.mutex.RUnlock()

	for _, e := range events {
		if e.callback(code, sender, e.listener, context) {
			return true
		}
	}
	return false
}
