// internal/workers/reading/complete-reading/fallback.go
package completereading

import "moonlight-diary/internal/models"

// FallbackReading is served whenever the model cannot produce a usable
// reading.
func FallbackReading() models.StructuredReading {
	return models.StructuredReading{
		Reply:           "언니가 오늘은 말보다 카드로 먼저 대답할게. 태양 카드가 나왔어. 지금 마음이 많이 지쳐 있어도, 곧 환하게 풀릴 거야.",
		ShowCard:        true,
		CardName:        string(models.DefaultCardID),
		CardKeywords:    []string{"희망", "활력", "성공"},
		CardDescription: "태양 카드는 밝은 에너지와 순수한 기쁨, 그리고 노력의 결실을 뜻해.",
		CardAnalysis:    "지금은 흐려 보여도 네 안의 빛은 꺼지지 않았어. 조금만 지나면 상황이 훨씬 선명해질 거야.",
		CardAdvice:      "오늘은 햇볕 아래에서 잠깐 걸어봐. 몸이 따뜻해지면 마음도 따라 풀려.",
		Teaser:          "다음엔 네 이야기를 더 자세히 들려줘. 그럼 언니가 더 깊이 봐줄게.",
		LuckyItem:       "해바라기 디퓨저",
	}
}
