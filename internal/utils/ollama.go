package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// OllamaClient Ollama API 客户端（文本生成 + 向量）
// 显式持有，不用包级单例，由启动时构造后传入各组件
type OllamaClient struct {
	Host       string
	LLMModel   string
	EmbedModel string
	client     *http.Client
}

// NewOllamaClient 创建 Ollama 客户端
// LLM 生成内容较慢，超时放宽到 120 秒；向量调用单独用 30 秒
func NewOllamaClient(host, llmModel, embedModel string) *OllamaClient {
	return &OllamaClient{
		Host:       host,
		LLMModel:   llmModel,
		EmbedModel: embedModel,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// generateRequest Ollama generate API 请求结构
type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// generateResponse Ollama generate API 响应结构
type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Generate 调用 Ollama 生成文本，system 为系统指令，input 为用户输入
func (c *OllamaClient) Generate(ctx context.Context, system, input string) (string, error) {
	reqBody := generateRequest{
		Model:  c.LLMModel,
		Prompt: fmt.Sprintf("<<SYS>>\n%s\n<</SYS>>\n\n[INST]%s[/INST]", system, input),
		Stream: false,
		Options: map[string]interface{}{
			"temperature": 0.1,
			"num_ctx":     4096,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request failed: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Host+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post request to ollama failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned error status: %d", resp.StatusCode)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response failed: %v", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("ollama api error: %s", result.Error)
	}

	return result.Response, nil
}

// embedRequest Ollama embed API 请求结构
type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// embedResponse Ollama embed API 响应结构
type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Error      string      `json:"error"`
}

// Embed 调用 Ollama 生成向量
func (c *OllamaClient) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := embedRequest{
		Model: c.EmbedModel,
		Input: text,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %v", err)
	}

	// 向量调用比生成快得多，单独限定 30 秒
	embedCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(embedCtx, http.MethodPost, c.Host+"/api/embed", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post request to ollama failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned error status: %d", resp.StatusCode)
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response failed: %v", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("ollama api error: %s", result.Error)
	}
	if len(result.Embeddings) == 0 || len(result.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("ollama returned no embedding")
	}

	return result.Embeddings[0], nil
}
