// Package formspree is a small client for Formspree-compatible form relays.
//
// The relay receives plain form fields and forwards them by email on its own
// infrastructure:
//
//	c, err := formspree.New(formspree.Config{Endpoint: "https://formspree.io/f/xyzabcd"})
//	err = c.Submit(ctx, []formspree.Field{{Name: "name", Value: "Ali"}})
//
// Non-2xx replies are returned as *APIError. Free plans refuse file parts;
// test for that with errors.Is(err, ErrFileUploadsNotPermitted).
package formspree
