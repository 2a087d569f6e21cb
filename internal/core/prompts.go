// ABOUTME: Prompt templates for summary, question, and answer generation
// ABOUTME: Questions must be answerable from the chunk alone; answers stay grounded in it
package core

import "fmt"

const questionSystemPrompt = `You are a dataset creation assistant. Read the provided text and write exactly one clear, self-contained question that can be answered using only that text.

Rules:
- Ask about the most important information in the text.
- Do not reference "the text", "the passage", or "the document" in the question.
- Output only the question itself, with no preamble or numbering.`

const answerSystemPrompt = `You are a dataset creation assistant. Answer the question using only the provided text.

Rules:
- Ground every statement in the text; do not invent facts.
- Be concise and direct.
- Output only the answer, with no preamble.`

const summarySystemPrompt = `You are a dataset creation assistant. Write a short summary of the document below, covering its main subject and the kinds of information it contains. Output only the summary.`

func questionPrompt(summary, chunk string) string {
	if summary != "" {
		return fmt.Sprintf("%s\n\nDocument summary (for context only):\n%s\n\nText:\n%s\n\nQuestion:", questionSystemPrompt, summary, chunk)
	}
	return fmt.Sprintf("%s\n\nText:\n%s\n\nQuestion:", questionSystemPrompt, chunk)
}

func answerPrompt(summary, chunk, question string) string {
	if summary != "" {
		return fmt.Sprintf("%s\n\nDocument summary (for context only):\n%s\n\nText:\n%s\n\nQuestion:\n%s\n\nAnswer:", answerSystemPrompt, summary, chunk, question)
	}
	return fmt.Sprintf("%s\n\nText:\n%s\n\nQuestion:\n%s\n\nAnswer:", answerSystemPrompt, chunk, question)
}

func summaryPrompt(document string) string {
	return fmt.Sprintf("%s\n\nDocument:\n%s\n\nSummary:", summarySystemPrompt, document)
}
