// internal/command/presets.go
package command

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v2"
)

// 기본 프리셋
var (
	PresetSour   = Params{DacValue: 50, DutyCycle: 50, Frequency: 50}
	PresetBitter = Params{DacValue: 100, DutyCycle: 50, Frequency: 0}

	// IdleParams Deactivate 가 보내는 유휴 상태
	IdleParams = Params{DacValue: 0, DutyCycle: 0, Frequency: 100}
)

// presetFile YAML 프리셋 파일 형식
//
//	presets:
//	  salty:
//	    dac_value: 30
//	    duty_cycle: 60
//	    frequency: 20
type presetFile struct {
	Presets map[string]Params `yaml:"presets"`
}

// PresetRegistry 이름으로 찾는 파라미터 묶음. API 고루틴에서도 읽으므로 잠금 사용
type PresetRegistry struct {
	mu      sync.RWMutex
	presets map[string]Params
}

// NewPresetRegistry 기본 프리셋(sour, bitter)이 등록된 레지스트리
func NewPresetRegistry() *PresetRegistry {
	return &PresetRegistry{
		presets: map[string]Params{
			"sour":   PresetSour,
			"bitter": PresetBitter,
		},
	}
}

// Get 이름으로 프리셋 조회
func (r *PresetRegistry) Get(name string) (Params, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.presets[name]
	return p, ok
}

// Set 프리셋 등록 또는 교체
func (r *PresetRegistry) Set(name string, p Params) error {
	if name == "" {
		return fmt.Errorf("%w: preset name is empty", ErrInvalidArgument)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("preset %q: %w", name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presets[name] = p
	return nil
}

// Names 정렬된 프리셋 이름 목록
func (r *PresetRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All 프리셋 사본
func (r *PresetRegistry) All() map[string]Params {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Params, len(r.presets))
	for name, p := range r.presets {
		out[name] = p
	}
	return out
}

// Load YAML 데이터의 프리셋을 모두 검증한 뒤 한 번에 등록
func (r *PresetRegistry) Load(data []byte) error {
	var file presetFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return fmt.Errorf("failed to parse presets: %w", err)
	}
	for name, p := range file.Presets {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
	}
	for name, p := range file.Presets {
		if err := r.Set(name, p); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile 프리셋 파일 로드
func (r *PresetRegistry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read presets file: %w", err)
	}
	return r.Load(data)
}
