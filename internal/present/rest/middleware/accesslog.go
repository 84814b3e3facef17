package middleware

import (
	"io"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// accessLogFormat is echo's default format with ${path} in place of ${uri}:
// websocket clients put the launch payload in the query string.
const accessLogFormat = `{"time":"${time_rfc3339_nano}","id":"${id}","remote_ip":"${remote_ip}",` +
	`"host":"${host}","method":"${method}","path":"${path}","user_agent":"${user_agent}",` +
	`"status":${status},"error":"${error}","latency":${latency},"latency_human":"${latency_human}"` +
	`,"bytes_in":${bytes_in},"bytes_out":${bytes_out}}` + "\n"

// AccessLog logs every request without its query string. A nil output
// writes to stdout.
func AccessLog(output io.Writer) echo.MiddlewareFunc {
	return echomw.LoggerWithConfig(echomw.LoggerConfig{
		Format: accessLogFormat,
		Output: output,
	})
}
