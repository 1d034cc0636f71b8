package messaging

import "bytes"

// maxLineLength 줄바꿈 없이 이 길이를 넘으면 버퍼를 버림
const maxLineLength = 4096

// lineFramer 바이트 스트림을 '\n' 기준으로 자름. '\r' 은 페이로드에 남김
type lineFramer struct {
	buf []byte
}

// Feed 완성된 줄을 반환하고 남은 조각은 보관
func (f *lineFramer) Feed(data []byte) []string {
	f.buf = append(f.buf, data...)

	var lines []string
	for {
		index := bytes.IndexByte(f.buf, '\n')
		if index == -1 {
			break
		}
		lines = append(lines, string(f.buf[:index]))
		f.buf = f.buf[index+1:]
	}

	if len(f.buf) == 0 || len(f.buf) > maxLineLength {
		f.buf = nil
	}
	return lines
}

// Reset 보관 중인 조각 폐기 (재연결 시)
func (f *lineFramer) Reset() {
	f.buf = nil
}
