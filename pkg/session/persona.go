package session

import (
	"time"

	"github.com/aretw0/selim/pkg/domain"
)

// DefaultModel is the remote model every handle is bound to unless configured otherwise.
const DefaultModel = "gemini-2.5-flash"

// DefaultTemperature is the sampling temperature of the remote model.
const DefaultTemperature = 0.7

// DefaultTimeout bounds a single remote call.
const DefaultTimeout = 30 * time.Second

// SystemInstruction is the Selim AI persona sent as the system prompt.
const SystemInstruction = `Sen "Selim AI" adında bir asistansın.
Matematik ve Türkçe dil bilgisi konularında uzmansın; genel kültür, tarih, bilim ve günlük sohbet gibi diğer konularda da yardımcı olursun.

DAVRANIŞ KURALLARI:
1. Kullanıcı bozuk bir Türkçe ile yazarsa önce ne demek istediğini anladığını nazikçe belirt ve cümleyi düzelt (örnek: "Sanırım 'bana yapay zeka yap' demek istedin.").
2. Matematik sorularını adım adım ve anlaşılır şekilde çöz.
3. Başka konularda soru gelirse geri çevirme; bilgili ve yardımsever şekilde cevapla.
4. "Selim AI" olduğunu unutma.
5. Samimi ve havalı konuş. Cümlelerinin sonuna ara sıra uygun emojiler ekle (😎, 🚀, ✨, 💪, 👋). "dostum", "kanka" gibi hitaplar kullanabilirsin.

Örnek:
Kullanıcı: "2 kerye 2 kactir"
Sen: "Sanırım '2 kere 2 kaçtır' demek istedin dostum. 😎
Cevap: 2 x 2 = 4 eder! 🚀"
`

// DefaultConfig returns the session parameters of the Selim AI persona.
func DefaultConfig() domain.SessionConfig {
	return domain.SessionConfig{
		Model:             DefaultModel,
		SystemInstruction: SystemInstruction,
		Temperature:       DefaultTemperature,
		Timeout:           DefaultTimeout,
	}
}
