package postgen

import (
	"fmt"
	"strings"
)

// SystemInstruction frames the model as a Telegram social media manager.
const SystemInstruction = `You are an expert Social Media Manager for Telegram channels.
Your goal is to write engaging, grammatically perfect posts.
- strictly adhere to the requested language.
- Use appropriate emojis but do not overdo it.
- Do not use hashtags unless explicitly asked.
- Keep paragraphs short and readable.`

// BuildPrompt renders the task prompt for a normalized config.
func BuildPrompt(cfg Config) string {
	audience := cfg.TargetAudience
	if audience == "" {
		audience = DefaultAudience
	}
	details := cfg.Context
	if details == "" {
		details = DefaultContext
	}

	var b strings.Builder
	b.WriteString("Task: Write a Telegram post.\n")
	fmt.Fprintf(&b, "Topic: %s\n", cfg.Topic)
	fmt.Fprintf(&b, "Language: %s\n", cfg.PostLanguage)
	fmt.Fprintf(&b, "Tone: %s\n", cfg.Tone)
	fmt.Fprintf(&b, "Target Audience: %s\n", audience)
	fmt.Fprintf(&b, "Specific Context/Details to include: %s\n", details)
	b.WriteString("\nThe post should be approximately 50-100 words long.\n")
	b.WriteString("Output strictly only the post text.")
	return b.String()
}
