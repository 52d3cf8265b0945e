// Package storage uploads files to an image or object host and returns a link.
//
// Two hosts implement Storage:
//
//   - S3Storage: any S3-compatible bucket (AWS, MinIO, R2). Public objects get a
//     plain URL, private ones a pre-signed GET link.
//   - ImgBB: the imgbb.com upload API. Images only.
//
// Media types are sniffed from content unless WithContentType is given, and
// WithValidation rules (MaxSize, NotEmpty, AllowedTypes, ImageOnly) run before
// any network call:
//
//	info, err := storage.PutBytes(ctx, store, data,
//	    storage.WithFilename("progress.jpg"),
//	    storage.WithValidation(storage.ImageOnly(), storage.MaxSize(10<<20)),
//	)
//
// S3 failures are mapped to ErrNotFound, ErrAccessDenied or ErrUploadFailed.
package storage
