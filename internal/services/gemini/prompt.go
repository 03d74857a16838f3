package gemini

// SummaryInstruction steers the model toward a uniform output shape: 5-7
// neutral, jargon-free markdown bullets with no framing text. Sent as the
// system instruction on every summarization request; it is fixed, not
// per-request configurable, so every record's summary reads the same way.
const SummaryInstruction = `1. Analyze the provided legislative data and rewrite it into a clear, detailed summary that any citizen can easily understand.
2. Explain what are the changes that are happening with this bill/law/amendment.
3. Stay neutral about the political views and simply be an effective summarizer for normal citizens.
4. Avoid legislative jargon and focus on simplifying complex terms.
5. Provide a summary in 5 to 7 bullet points, being concise and highlighting the key aspects.

Respond in markdown format. Do not add any pretext and greetings at the end or beginning of the summary.
Just return the points.
Do not include any backticks (` + "```" + `) for formatting.`
