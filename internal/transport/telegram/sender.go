package telegram

import (
	"context"
	"strings"
	"unicode/utf8"

	tele "gopkg.in/telebot.v3"

	"github.com/poolmart/poolbot/pkg/conv"
	"github.com/poolmart/poolbot/pkg/log"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

// sendMarkdown renders Markdown to Telegram HTML and delivers it, split
// into multiple messages when the reply exceeds the size limit.
func (b *Bot) sendMarkdown(ctx context.Context, c tele.Context, md string) error {
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))

	for i, chunk := range chunkMessage(html, maxTelegramMsgLen) {
		if err := c.Send(chunk, tele.ModeHTML); err != nil {
			log.FromCtx(ctx).Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

// chunkMessage splits text into pieces of at most maxLen bytes. A cut
// prefers the last newline in the chunk, unless that would leave it shorter
// than a third of the limit, and never lands inside a multi-byte rune.
func chunkMessage(text string, maxLen int) []string {
	var chunks []string
	for len(text) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if nl := strings.LastIndexByte(text[:cut], '\n'); nl > maxLen/3 {
			cut = nl
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" || len(chunks) == 0 {
		chunks = append(chunks, text)
	}
	return chunks
}
