package server

import (
	"bytes"
	"errors"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/gofiber/fiber/v2"
)

// MIMEApplicationCBOR is offered next to JSON for clients that ask for it.
const MIMEApplicationCBOR = "application/cbor"

var errEmptyBody = errors.New("empty request body")

// cborDecoder decodes maps nested in untyped fields as map[string]any, the
// same shape encoding/json produces.
var cborDecoder = func() cbor.DecMode {
	dm, err := cbor.DecOptions{DefaultMapType: reflect.TypeOf(map[string]any(nil))}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

// decodeBody fills out from a JSON or CBOR request body. Bodies without a
// CBOR content type are treated as JSON whatever they declare.
func decodeBody(c *fiber.Ctx, out any) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return errEmptyBody
	}
	if strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), MIMEApplicationCBOR) {
		return cborDecoder.Unmarshal(body, out)
	}
	return c.App().Config().JSONDecoder(body, out)
}

// respond writes v as JSON unless the client prefers CBOR.
func respond(c *fiber.Ctx, status int, v any) error {
	if c.Accepts(fiber.MIMEApplicationJSON, MIMEApplicationCBOR) == MIMEApplicationCBOR {
		data, err := cbor.Marshal(v)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, MIMEApplicationCBOR)
		return c.Status(status).Send(data)
	}
	return c.Status(status).JSON(v)
}
