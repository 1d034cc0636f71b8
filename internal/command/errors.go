package command

import "errors"

var (
	// ErrInvalidArgument 파라미터 범위 위반. 전송/큐 등록 전에 반환됨
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedResponse "<seq> <payload>" 형식이 아닌 수신 줄
	ErrMalformedResponse = errors.New("malformed response")

	// ErrUnmatchedResponse 대기 중인 명령이 없는 시퀀스 번호 (이미 처리됨 등)
	ErrUnmatchedResponse = errors.New("unmatched response")

	ErrStoreFull         = errors.New("pending command store is full")
	ErrDuplicateSequence = errors.New("sequence number already pending")
)
