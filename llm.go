package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// Extraction prompt, aligned with the 19-category store layout. The
// model sees hot-content titles and returns ASR-unfriendly vocabulary.
const extractionPrompt = `你是一个热词采集专家，专门为 ASR（语音识别）系统维护热词库。

我会给你一批来自各平台的热门内容标题。你的任务是从中提取 **ASR 不容易正确识别的名词和专有名词**。

## 提取目标

重点提取以下类型的词（这些词 ASR 容易识别错误）：
1. **品牌名/产品名**：如 DeepSeek、Kimi、仰望U8、理想MEGA
2. **新造词/网络用语**：如 显眼包、搭子、松弛感、去班味
3. **英文缩写/术语**：如 RAG、LoRA、RLHF、GLP-1、eVTOL
4. **中英混合词**：如 AI搜索、vibe coding、端侧AI
5. **非标准拼写/谐音词**：如 扩列、塌房、硬控
6. **专业术语**：如 量化加速、端到端大模型、一体化压铸
7. **人名（热点相关）**：如 雷军、黄仁勋（仅限高热度人名）
8. **技术框架/工具名**：如 Cursor、Shadcn UI、Hono

## 严格排除

- ASR 已能准确识别的常见词（如：手机、电脑、人工智能、视频、新闻）
- 过于宽泛的通用词（如：发展、趋势、未来、创新）
- 纯数字或日期
- 语气词和助词

## 分类

使用以下分类之一：
AI、编程、职场、数码、汽车、金融、社交、购物、设计、健康、旅游、文娱、营销、法律、人力、教育、房产、运动、政务

如果不确定归属哪个分类，使用最接近的。技术相关优先归入「AI」或「编程」。

## 输出格式

输出 JSON 数组，每个元素格式：
{"term": "原始词", "category": "分类名"}

规则：
1. term 保持原始大小写和拼写
2. 尽可能多提取，宁多勿少（后续通过词频筛选）
3. 只输出 JSON 数组，不要有其他文字`

// LLMExtractor calls the configured chat model to extract terms from a
// batch of texts. The API key is supplied per call so pool rotation
// works; a fresh client per request is cheap with both SDKs.
type LLMExtractor struct {
	provider string
	endpoint string
	model    string
}

func NewLLMExtractor(cfg Config) *LLMExtractor {
	return &LLMExtractor{
		provider: cfg.LLMProvider,
		endpoint: cfg.LLMEndpoint,
		model:    cfg.LLMModel,
	}
}

func (l *LLMExtractor) ExtractBatch(ctx context.Context, batch []string, apiKey string) ([]RawTerm, error) {
	userPrompt := fmt.Sprintf("请从以下 %d 条热门内容中提取 ASR 热词：\n\n%s", len(batch), strings.Join(batch, "\n"))

	var reply string
	var err error
	switch l.provider {
	case "anthropic":
		model := l.model
		if model == "" {
			model = defaultAnthropicModel
		}
		reply, err = callAnthropic(ctx, apiKey, model, extractionPrompt, userPrompt)
	default:
		reply, err = l.callOpenAICompatible(ctx, apiKey, extractionPrompt, userPrompt)
	}
	if err != nil {
		return nil, err
	}

	// A malformed reply is an empty result for this call, not a retry.
	terms := parseTermsResponse(reply)
	if len(terms) == 0 && strings.TrimSpace(reply) != "" && strings.TrimSpace(reply) != "[]" {
		log.Printf("llm reply not a term array, treating as empty (size=%d)", len(reply))
	}
	return terms, nil
}

func (l *LLMExtractor) callOpenAICompatible(ctx context.Context, apiKey, systemPrompt, userPrompt string) (string, error) {
	client := openai.NewClient(
		openaioption.WithAPIKey(apiKey),
		openaioption.WithBaseURL(l.endpoint),
	)

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(l.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(0.3),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	return completion.Choices[0].Message.Content, nil
}

func callAnthropic(ctx context.Context, apiKey, model, systemPrompt, userPrompt string) (string, error) {
	client := anthropic.NewClient(anthropicoption.WithAPIKey(apiKey))

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt, CacheControl: anthropic.NewCacheControlEphemeralParam()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}

// parseTermsResponse pulls a JSON term array out of a model reply,
// tolerating code fences and surrounding prose. Anything unparseable
// yields an empty list.
func parseTermsResponse(text string) []RawTerm {
	text = strings.TrimSpace(text)

	if terms, ok := tryParseTermArray(text); ok {
		return terms
	}

	// Fenced code block: take everything between the first and last
	// fence, dropping the language tag line.
	if start := strings.Index(text, "```"); start != -1 {
		if end := strings.LastIndex(text, "```"); end > start {
			block := text[start:end]
			if nl := strings.Index(block, "\n"); nl != -1 {
				if terms, ok := tryParseTermArray(block[nl+1:]); ok {
					return terms
				}
			}
		}
	}

	// Last resort: the outermost bracketed slice.
	if start := strings.Index(text, "["); start != -1 {
		if end := strings.LastIndex(text, "]"); end > start {
			if terms, ok := tryParseTermArray(text[start : end+1]); ok {
				return terms
			}
		}
	}

	return nil
}

func tryParseTermArray(text string) ([]RawTerm, bool) {
	var terms []RawTerm
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &terms); err != nil {
		return nil, false
	}
	return terms, true
}
