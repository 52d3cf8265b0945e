package dispatch

import "errors"

var (
	// ErrConfigMissing means delivery credentials are not set. It is never a transport failure.
	ErrConfigMissing = errors.New("dispatch: email configuration is missing")
	ErrTransport     = errors.New("dispatch: transport failed")
	// ErrFileUploadsUnsupported means the relay refused a file part.
	ErrFileUploadsUnsupported = errors.New("dispatch: relay does not accept file uploads")
	// ErrUnsupportedAttachment means the relay cannot carry this attachment at all.
	ErrUnsupportedAttachment = errors.New("dispatch: attachment type not supported by relay")
)
