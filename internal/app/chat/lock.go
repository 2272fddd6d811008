package chat

// LockController owns the global chat lock: a two-state machine that
// starts Unlocked and toggles only through privileged actions. It is owned
// by the hub's dispatch goroutine. The state is process-local and resets
// to Unlocked on restart.
type LockController struct {
	locked bool
}

// NewLockController returns a controller in the Unlocked state.
func NewLockController() *LockController {
	return &LockController{}
}

// Locked reports the current lock state.
func (l *LockController) Locked() bool {
	return l.locked
}

// Lock moves the state machine to Locked.
func (l *LockController) Lock() {
	l.locked = true
}

// Unlock moves the state machine to Unlocked.
func (l *LockController) Unlock() {
	l.locked = false
}
