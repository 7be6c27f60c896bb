package logger

import (
	"bytes"
	"io"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// CloudWatch truncates entries past 256KB; stay safely under it.
	sizeLimit = 240 * 1024
)

// logRecord captures one handled HTTP request for the access log.
type logRecord struct {
	RequestID      string
	Timestamp      int64
	Duration       int64
	HTTPStatusCode int
	HTTPMethod     string
	RequestPath    string
	RequestBody    string
	ResponseBody   string
	PanicStack     string
}

// GinLogMiddleware emits one structured access-log entry per request. The
// request ID is taken from the Lambda context when running behind API Gateway,
// otherwise a fresh UUID is generated so server-mode requests stay traceable.
func GinLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		record := initLogRecord(c)

		// overwrite the gin.Context.Writer to capture the response body
		respWriter := &respLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = respWriter

		defer func() {
			record.HTTPStatusCode = c.Writer.Status()
			record.Duration = time.Now().UnixNano()/1e6 - record.Timestamp
			record.ResponseBody = respWriter.body.String()
			emit(record)
		}()

		defer func() {
			if r := recover(); r != nil {
				record.HTTPStatusCode = http.StatusInternalServerError
				record.PanicStack = string(debug.Stack())
				// re-throw so the recovery middleware can answer the request
				panic(r)
			}
		}()

		if lc, ok := lambdacontext.FromContext(c.Request.Context()); ok {
			record.RequestID = lc.AwsRequestID
		} else {
			record.RequestID = uuid.NewString()
		}
		c.Set("request_id", record.RequestID)

		c.Next()
	}
}

func emit(record *logRecord) {
	truncate(record)
	GetLogger().Info("request",
		zap.String("request_id", record.RequestID),
		zap.String("method", record.HTTPMethod),
		zap.String("path", record.RequestPath),
		zap.Int("status", record.HTTPStatusCode),
		zap.Int64("duration_ms", record.Duration),
		zap.String("request_body", record.RequestBody),
		zap.String("response_body", record.ResponseBody),
		zap.String("panic_stack", record.PanicStack),
	)
}

// truncate drops the biggest fields first until the record fits the log limit.
func truncate(record *logRecord) {
	size := len(record.RequestBody) + len(record.ResponseBody) + len(record.PanicStack)
	if size < sizeLimit {
		return
	}

	size -= len(record.ResponseBody)
	record.ResponseBody = "TRUNCATED..."

	if size > sizeLimit {
		size -= len(record.RequestBody)
		record.RequestBody = "TRUNCATED..."
	}

	if size > sizeLimit {
		record.PanicStack = "TRUNCATED..."
	}
}

type respLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w respLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w respLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func initLogRecord(c *gin.Context) *logRecord {
	requestBodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		requestBodyBytes = nil
	}
	// reattach request body for later use
	c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBodyBytes))

	return &logRecord{
		Timestamp:   time.Now().UnixNano() / 1e6,
		HTTPMethod:  c.Request.Method,
		RequestPath: c.Request.RequestURI,
		RequestBody: string(requestBodyBytes),
	}
}
