// internal/common/constants/status.go
package constants

// Device Response 장치 응답 상수
const (
	// SuccessMarker 성공 응답 페이로드 (장치가 보내는 줄 끝 \r 포함)
	SuccessMarker = "success\r"
)

// Timeout Messages 타임아웃 콜백에 전달되는 진단 메시지
const (
	MessageTimedOut      = "command response timed out"
	MessageQueuePressure = "command response timed out, too many requests in queue"
)

// Command Status DB 저장용 상태 상수
const (
	CommandStatusPending = "PENDING"
	CommandStatusSuccess = "SUCCESS"
	CommandStatusFailure = "FAILURE"
	CommandStatusTimeout = "TIMEOUT"
	CommandStatusEvicted = "EVICTED"
)

// Device Connection State 장치 연결 상태 상수
const (
	ConnectionStateOnline  = "ONLINE"
	ConnectionStateOffline = "OFFLINE"
)

// Parameter Range 명령 파라미터 허용 범위
const (
	ParamMin = 0
	ParamMax = 100
)
