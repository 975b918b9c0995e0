package lock

import "time"

// Action is the desired lock operation.
type Action string

// Lock actions.
const (
	ActionLock   Action = "lock"
	ActionUnlock Action = "unlock"
)

// Method identifies how the actor authenticated.
type Method string

// Authentication methods.
const (
	MethodPincode     Method = "PINCODE"
	MethodFace        Method = "FACE"
	MethodFingerprint Method = "FINGERPRINT"
	MethodApp         Method = "APP"
	MethodRemote      Method = "REMOTE"
)

// Credential is the method-specific payload carried by a Command.
// Each variant holds exactly the fields its method requires, so a
// Ready command can never be partially filled.
type Credential interface {
	credential()
}

// PINCredential carries a numeric PIN entered on a keypad.
type PINCredential struct {
	PIN string `json:"pin"`
}

// FaceCredential carries a base64-encoded face image.
type FaceCredential struct {
	Image string `json:"image"`
}

// FingerprintCredential carries an identity and secret pair from the
// fingerprint reader enrolment.
type FingerprintCredential struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

func (PINCredential) credential()         {}
func (FaceCredential) credential()        {}
func (FingerprintCredential) credential() {}

// Command is a validated, fully-populated lock command ready for the
// transport layer. Commands are transient; they are never stored.
type Command struct {
	CommandID  string     `json:"command_id"`
	LockID     string     `json:"lock_id"`
	Action     Action     `json:"action"`
	Method     Method     `json:"method"`
	Actor      string     `json:"actor"`
	Credential Credential `json:"credential,omitempty"`
	IssuedAt   time.Time  `json:"issued_at"`
}

// FormData is the raw credential input gathered from the user before
// validation. Call Clear once the dispatch outcome is known.
type FormData struct {
	PIN       string
	FaceImage string
	Username  string
	Secret    string
}

// Clear zeroes all credential fields. Dispatch calls this on both the
// ready and rejected paths.
func (f *FormData) Clear() {
	if f == nil {
		return
	}
	f.PIN = ""
	f.FaceImage = ""
	f.Username = ""
	f.Secret = ""
}
