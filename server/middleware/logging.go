package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ByLCY/cvpress/telemetry"
)

// 处理函数写入、请求日志读取的上下文键。
const (
	ResumeIDKey = "resumeId"
	RenderKey   = "render"
)

// RenderInfo 是一次 PDF 生成的摘要，写入请求日志。
type RenderInfo struct {
	PDFBytes int
	Overflow bool
	// Archive 是导出存储返回的位置，未归档时为空。
	Archive string
}

// Logging emits one structured line per request. Requests that rendered a PDF
// also carry the render summary; status 4xx logs at warn and 5xx at error.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
		}
		if id := c.GetString(ResumeIDKey); id != "" {
			fields["resume_id"] = id
		}
		if raw, ok := c.Get(RenderKey); ok {
			if info, ok := raw.(RenderInfo); ok {
				fields["pdf_bytes"] = info.PDFBytes
				fields["overflow"] = info.Overflow
				if info.Archive != "" {
					fields["archive"] = info.Archive
				}
			}
		}

		switch {
		case status >= http.StatusInternalServerError:
			telemetry.Error("request.complete", fields)
		case status >= http.StatusBadRequest:
			telemetry.Warn("request.complete", fields)
		default:
			telemetry.Info("request.complete", fields)
		}
	}
}
