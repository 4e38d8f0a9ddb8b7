package provider

const (
	QUIZ_STRICT_PROMPT = `Based on this PDF, generate a challenging %d-question multiple-choice quiz. Every question must be answerable solely from the content of the document - do not invent facts that are not in it. For each question give 4 options and specify the correct answer. Call the create_quiz function with the result.`

	QUIZ_SIMILAR_PROMPT = `Read this PDF and generate a challenging %d-question multiple-choice quiz of comparable topic and difficulty. Do NOT copy questions or sentences verbatim from the document - invent new questions that test the same material. For each question give 4 options and specify the correct answer. Call the create_quiz function with the result.`

	QUIZ_FILENAME_PROMPT = `A student uploaded a lecture document named "%s". You cannot read the file itself. Infer the likely subject from the filename and generate a challenging %d-question multiple-choice quiz on that subject at an undergraduate level. For each question give 4 options and specify the correct answer. Call the create_quiz function with the result.`

	TOPIC_PROMPT = `Identify the main topic of this PDF in 2-5 words (no punctuation). Call the identify_topic function with the result.`

	TOPIC_FILENAME_PROMPT = `A document is named "%s". Guess its main topic in 2-5 words (no punctuation). Call the identify_topic function with the result.`

	PING_PROMPT = `Respond with exactly: 'API working'`
)
