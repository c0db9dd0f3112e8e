package intelligence

import (
	"fmt"
	"strings"
)

// prescriptionPrompt instructs the model to extract a schedule descriptor
// from a free-text medication instruction. Unit normalization ("1 vez ao
// dia" is 24 hours, "uma semana" is 7 days) is the model's job.
const prescriptionPrompt = `Você é um assistente inteligente que extrai dados de prescrições médicas.
Analise a instrução do usuário e retorne APENAS um objeto JSON com 3 chaves:
1. "medicamento": (string) O nome do medicamento.
2. "intervalo_horas": (int) O intervalo em horas entre as doses. Se for "1 vez ao dia", use 24.
3. "duracao_dias": (int) O número total de dias. Se for "uma semana", use 7.
Instrução do Usuário:
%s
JSON:`

func buildPrescriptionPrompt(instruction string) string {
	return fmt.Sprintf(prescriptionPrompt, instruction)
}

// intentPrompt instructs the model to classify one chat utterance and draft
// a short reply for the user.
const intentPrompt = `Você é um assistente de saúde chamado 'Bulário'.
Analise o texto do usuário e retorne um JSON com a classificação e uma resposta amigável.

ESTRUTURA JSON:
{
  "intent": "...", // 'schedule', 'cancel', 'edit', 'query', 'unknown'
  "medicamento": "...", // null se não houver
  "topic": "...", // null se não houver
  "message": "..." // Sua resposta textual para o usuário
}

REGRAS PARA A MENSAGEM ('message'):
- Se for 'schedule': Pergunte os detalhes (qual remédio, frequência, dias) se não foram dados, ou confirme que entendeu.
- Se for 'cancel' ou 'edit': Diga que vai buscar os agendamentos.
- Se for 'query': Diga algo como "Vou verificar na bula para você...".
- Se for 'unknown': Diga que não entendeu e dê exemplos do que pode fazer.

TEXTO DO USUÁRIO:
%s

JSON:`

func buildIntentPrompt(utterance string) string {
	return fmt.Sprintf(intentPrompt, utterance)
}

// groundedPrompt restricts the model to the retrieved leaflet passages and
// demands the NOT_FOUND sentinel when they do not cover the question.
const groundedPrompt = `Você é um assistente especialista em bulas de medicamentos.
Responda à pergunta do usuário usando APENAS os trechos de contexto abaixo.

Contexto:
%s

Pergunta:
%s

Instruções para a resposta (formato JSON):

1. "answer" (string):
   * Extraia a resposta diretamente do contexto para responder à pergunta.
   * Se o contexto contiver qualquer informação relevante, mesmo que parcial, apresente essa informação.
   * Se o contexto não contiver NENHUMA informação relevante para a pergunta, responda EXATAMENTE: "NOT_FOUND"

2. "confidence":
   * O nível de confiança de 0 a 1.

Responda APENAS com o objeto JSON.`

// contextSeparator joins retrieved passages inside the grounded prompt.
const contextSeparator = "\n\n---\n\n"

func buildGroundedPrompt(passages []string, question string) string {
	return fmt.Sprintf(groundedPrompt, strings.Join(passages, contextSeparator), question)
}

// fallbackPrompt lets the model answer from general knowledge when nothing
// useful was retrieved.
const fallbackPrompt = `Você é um especialista em medicamentos. A bula local não foi encontrada.
Responda à pergunta do usuário usando seu conhecimento geral, mas no formato JSON.

Pergunta:
%s

Responda APENAS com o objeto JSON (formato: {"answer": "Sua resposta aqui...", "confidence": 0.5}).
Se você não sabe a resposta, responda: {"answer": "NOT_FOUND", "confidence": 0.2}`

func buildFallbackPrompt(question string) string {
	return fmt.Sprintf(fallbackPrompt, question)
}

// blockedTopicMessage is the fixed reply for questions outside the allowed
// topic. No model or store call happens on this path.
const blockedTopicMessage = "Desculpe, como assistente de saúde, só posso fornecer informações sobre 'reações adversas' para evitar o risco de automedicação. Para outras dúvidas, consulte seu médico."

// safetyDisclaimer is appended to every general-knowledge answer.
const safetyDisclaimer = "Atenção: esta resposta vem de conhecimento geral, não da bula oficial. Consulte seu médico ou farmacêutico."

// apologyMessage is the degraded classifier reply when the model is down.
const apologyMessage = "Desculpe, tive um erro interno. Pode repetir?"
