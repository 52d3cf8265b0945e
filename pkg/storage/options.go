package storage

// Option configures a Put call.
type Option func(*putOptions)

type putOptions struct {
	key         string
	prefix      string
	filename    string
	contentType string
	acl         ACL
	rules       []ValidationRule
}

func newPutOptions(defaultACL ACL, opts ...Option) *putOptions {
	o := &putOptions{acl: defaultACL}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithKey sets the object key instead of generating one.
func WithKey(key string) Option {
	return func(o *putOptions) { o.key = key }
}

// WithPrefix places generated keys under prefix.
func WithPrefix(prefix string) Option {
	return func(o *putOptions) { o.prefix = prefix }
}

// WithFilename records the original file name. S3 stores it in
// Content-Disposition; ImgBB uses it as the image title.
func WithFilename(name string) Option {
	return func(o *putOptions) { o.filename = name }
}

// WithContentType skips detection and uses ct.
func WithContentType(ct string) Option {
	return func(o *putOptions) { o.contentType = ct }
}

// WithACL overrides the default ACL. Ignored by hosts without ACLs.
func WithACL(acl ACL) Option {
	return func(o *putOptions) { o.acl = acl }
}

// WithValidation rejects the upload with a *FileValidationError when a rule fails.
func WithValidation(rules ...ValidationRule) Option {
	return func(o *putOptions) { o.rules = append(o.rules, rules...) }
}
