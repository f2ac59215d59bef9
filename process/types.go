package process

// ProcessID represents a unique identifier for a process
type ProcessID int

// ProcessInfo contains what discovery learns about a candidate process
type ProcessInfo struct {
	PID  ProcessID // Process ID
	Name string    // Executable name, e.g. MonsterHunterWorld.exe
	Exe  string    // Path to the executable, best effort
}
