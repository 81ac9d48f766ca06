// Package writer assembles prompts for the writer flows, sends them to the
// text generation model and prepares the results for display.
package writer

import (
	"fmt"
	"strings"

	"civic-writer-api/internal/domain/entity"
)

const speechClosing = "이와 같이 전체 인사말씀은 풍부하고 품격 있게 구성되어야 합니다."

// BuildSpeechPrompt concatenates one sentence per selection in a fixed order.
// Every fragment is always emitted; the "없음" audience is interpolated as is.
func BuildSpeechPrompt(req entity.SpeechRequest) string {
	fragments := []string{
		fmt.Sprintf("『%s』의 성격은 %s입니다.", req.Title, req.Greeting),
		fmt.Sprintf("%s ~님의 인사말씀은 %s과(와) %s를 청중으로 작성해야 합니다.", req.Speaker, req.Audience, req.SecondAudience),
		fmt.Sprintf("계절적 요소인 %s에 어울리며,", req.Season),
		req.Quote.Fragment(),
		req.Disaster.Fragment(),
		speechClosing,
	}
	return strings.Join(fragments, " ")
}
