package narration

// RewriteInstruction prepares a summary for speech synthesis. The response is
// fed straight into the synthesizer, so the instruction forbids any framing
// text around the narration itself.
const RewriteInstruction = `Your task is to convert the given summary into a narrative speech optimized for audio generation. Specifically:

1. Remove special characters, abbreviations, and any miscellaneous information that might cause mispronunciations.
2. Ensure the text flows naturally, with clear and concise phrasing.
3. Avoid overly complex sentence structures to maintain listener comprehension.
4. Keep the length suitable for generating an audio file that is approximately two minutes long.
5. Return a clean, unformatted text ready for smooth audio narration.
6. Do not include any greetings, pretext or notes at the beginning or end of the content, the provided response is directly used to generate the response.`
