package service

import (
	"bytes"
	"context"
	"cybertrain_backend/internal/config"
	"cybertrain_backend/pkg/logger"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AgentService 封装对外部智能体服务的调用：出题、学习资源推荐、
// 学习计划生成。5xx和网络错误按指数退避重试，4xx视为终态直接返回。
type AgentService struct {
	mu     sync.RWMutex
	cfg    config.AgentConfig
	client *http.Client
}

func NewAgentService(cfg *config.Config) *AgentService {
	return &AgentService{
		cfg: cfg.Agent,
		client: &http.Client{
			Timeout: cfg.Agent.Timeout,
		},
	}
}

// UpdateConfig 配置热更新回调，调整地址、密钥与重试参数。换入新的
// http.Client，不改写在途请求正在使用的实例。
func (s *AgentService) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg.Agent
	s.client = &http.Client{Timeout: cfg.Agent.Timeout}
}

func (s *AgentService) snapshot() (config.AgentConfig, *http.Client) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.client
}

// AgentQuestion 智能体返回的题目。CorrectAnswer 形态约定同 model.Question。
type AgentQuestion struct {
	Type          string          `json:"type"`
	Content       string          `json:"content"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer string          `json:"correct_answer"`
	Points        int             `json:"points"`
	Explanation   string          `json:"explanation"`
}

type GenerateQuestionsRequest struct {
	SkillName       string `json:"skill_name"`
	SkillDomain     string `json:"skill_domain"`
	DifficultyLevel int    `json:"difficulty_level"`
	Count           int    `json:"count"`
	Language        string `json:"language"`
}

type AgentRecommendation struct {
	SkillID uint    `json:"skill_id"`
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Kind    string  `json:"kind"`
	Reason  string  `json:"reason"`
	Score   float64 `json:"score"`
}

type AgentPlanItem struct {
	SkillID     uint   `json:"skill_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Sequence    int    `json:"sequence"`
	DueInDays   int    `json:"due_in_days"`
}

// WeakSkill 构造推荐/计划请求时携带的薄弱技能画像。
type WeakSkill struct {
	SkillID     uint    `json:"skill_id"`
	SkillName   string  `json:"skill_name"`
	Proficiency float64 `json:"proficiency"`
}

func (s *AgentService) GenerateQuestions(ctx context.Context, req GenerateQuestionsRequest) ([]AgentQuestion, error) {
	var out struct {
		Questions []AgentQuestion `json:"questions"`
	}
	if err := s.post(ctx, "/api/v1/questions/generate", req, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

func (s *AgentService) Recommendations(ctx context.Context, userID uint, weaknesses []WeakSkill) ([]AgentRecommendation, error) {
	payload := map[string]interface{}{
		"user_id":    userID,
		"weaknesses": weaknesses,
	}
	var out struct {
		Recommendations []AgentRecommendation `json:"recommendations"`
	}
	if err := s.post(ctx, "/api/v1/recommendations", payload, &out); err != nil {
		return nil, err
	}
	return out.Recommendations, nil
}

func (s *AgentService) LearningPlan(ctx context.Context, userID uint, weaknesses []WeakSkill) ([]AgentPlanItem, error) {
	payload := map[string]interface{}{
		"user_id":    userID,
		"weaknesses": weaknesses,
	}
	var out struct {
		Plan []AgentPlanItem `json:"plan"`
	}
	if err := s.post(ctx, "/api/v1/learning-plan", payload, &out); err != nil {
		return nil, err
	}
	return out.Plan, nil
}

// post 发送请求并在可重试错误上退避重试。每次重试间隔翻倍。
func (s *AgentService) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	cfg, client := s.snapshot()
	if cfg.BaseURL == "" {
		return fmt.Errorf("agent service is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	backoff := cfg.InitialBackoff
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			logger.Log.Warn("Retrying agent request",
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Error(lastErr))
		}

		retryable, err := doOnce(ctx, client, cfg, path, body, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}

	return fmt.Errorf("agent request %s failed after %d attempts: %w", path, cfg.MaxRetries+1, lastErr)
}

func doOnce(ctx context.Context, client *http.Client, cfg config.AgentConfig, path string, body []byte, out interface{}) (retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		// 网络层错误可重试
		return true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return true, fmt.Errorf("agent returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("agent returned status %d", resp.StatusCode)
	}

	if out == nil {
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode agent response: %w", err)
	}
	return false, nil
}
