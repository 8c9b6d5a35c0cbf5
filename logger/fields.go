package logger

// Standard field key constants for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldTraceID    = "trace_id"
	FieldProvider   = "provider"
	FieldCapability = "capability"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCacheKey   = "cache_key"
	FieldCircuit    = "circuit"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("dispatched", logger.Fields("provider", "fmp", "capability", "quote"))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}
