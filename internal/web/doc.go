// Package web is a thin layer over chi: handlers take a Context and return
// an error, middleware wraps HandlerFuncs, and a single error handler turns
// returned errors into JSON responses.
//
// Routes are declared by Handlers:
//
//	app := web.New(
//	    web.WithLogger(log),
//	    web.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    web.WithHandlers(submitHandler),
//	    web.WithHealthChecks(web.WithReadinessCheck("transport", pinger.Ping)),
//	)
//	err := app.Run(ctx, ":8888", web.ShutdownTimeout(30*time.Second))
//
// Errors returned from handlers go to the ErrorHandler, which by default
// renders {"error": message}. Return an *HTTPError to control the status
// code and the message shown to the client.
package web
