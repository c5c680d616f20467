package constants

import "time"

var BatchConfig = struct {
	TotalDuration time.Duration
	StepInterval  time.Duration
	DoneDisplay   time.Duration
}{
	TotalDuration: 3 * time.Second,        // 전체 시뮬레이션 시간
	StepInterval:  100 * time.Millisecond, // 진행률 갱신 주기 (30단계)
	DoneDisplay:   3 * time.Second,        // 완료 메시지 표시 시간
}

var CacheTTL = struct {
	AnalysisResult time.Duration
}{
	AnalysisResult: 30 * time.Minute,
}

var AIConfig = struct {
	DefaultGeminiModel string
	DefaultOpenAIModel string
	RequestTimeout     time.Duration
	PreviewLength      int
}{
	DefaultGeminiModel: "gemini-2.5-flash",
	DefaultOpenAIModel: "gpt-4.1-mini",
	RequestTimeout:     60 * time.Second,
	PreviewLength:      200,
}

var CircuitBreakerConfig = struct {
	FailureThreshold    int
	ResetTimeout        time.Duration
	RateLimitTimeout    time.Duration
	HealthCheckInterval time.Duration
}{
	FailureThreshold:    3,                // 3회 연속 실패 시 Circuit OPEN
	ResetTimeout:        30 * time.Second, // 기본 재시도 대기 시간
	RateLimitTimeout:    10 * time.Minute, // 429 전용 대기 시간
	HealthCheckInterval: 5 * time.Minute,
}

var PlanDefaults = struct {
	PostCount     int
	PostsPerWeek  int
	PillarsMin    int
	PillarsMax    int
	KeywordCount  int
	OutputLocale  string
	HashtagsShown int
}{
	PostCount:     12,
	PostsPerWeek:  3,
	PillarsMin:    3,
	PillarsMax:    4,
	KeywordCount:  5,
	OutputLocale:  "Korean",
	HashtagsShown: 3,
}

var FormatterLimits = struct {
	CaptionPreview   int
	ProgressBarWidth int
}{
	CaptionPreview:   80,
	ProgressBarWidth: 30,
}
