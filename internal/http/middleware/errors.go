package middleware

import "github.com/gofiber/fiber/v2"

// resolveError runs the app's error handler immediately so the response status
// is final before metrics and access logs read it. The error is consumed: the
// caller returns nil and fiber does not handle it a second time.
func resolveError(c *fiber.Ctx, err error) {
	if err == nil {
		return
	}
	if herr := c.App().ErrorHandler(c, err); herr != nil {
		_ = c.SendStatus(fiber.StatusInternalServerError)
	}
}
