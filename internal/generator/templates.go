package generator

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"linguaquiz/internal/models"
)

const (
	minSourceTextLength = 20
	excerptWords        = 15
	shortExcerptWords   = 6
)

var genericPool = map[models.Difficulty][]template{
	models.DifficultyBeginner: {
		{"Which activity is the best first step when learning about {topic}?", "Learning a few key words and phrases", []string{"Memorizing an entire dictionary", "Avoiding all practice until you are fluent", "Reading only academic research papers"}, "Starting small with high-frequency words builds a foundation for {topic}."},
		{"What is the most effective way to remember new {topic} vocabulary?", "Reviewing it regularly in short sessions", []string{"Reading each word once", "Writing it down and never looking again", "Only studying the night before a test"}, "Spaced review moves {topic} vocabulary into long-term memory."},
		{"Where can you practise {topic} every day?", "In short conversations and daily routines", []string{"Only in a classroom", "Only during exams", "Nowhere outside of textbooks"}, "Everyday situations give frequent, low-pressure practice."},
		{"Which resource is most helpful for a beginner studying {topic}?", "A graded reader with simple examples", []string{"A legal contract", "An untranslated technical manual", "A novel written in archaic language"}, "Graded material matches the learner's level."},
		{"What should you do when you make a mistake with {topic}?", "Notice it, correct it and keep practising", []string{"Stop speaking completely", "Ignore all feedback", "Start over from the very beginning"}, "Mistakes are part of learning {topic}; correcting them builds accuracy."},
	},
	models.DifficultyIntermediate: {
		{"Which strategy best helps you use {topic} naturally in conversation?", "Practising with native speakers in real situations", []string{"Translating every sentence word for word", "Avoiding spontaneous speech", "Memorizing grammar tables only"}, "Real interaction trains fluent, natural use of {topic}."},
		{"How can context help you understand unfamiliar {topic} expressions?", "Surrounding words often reveal the intended meaning", []string{"Context never affects meaning", "Only the first word of a sentence matters", "Dictionaries are always faster than context"}, "Context clues are a key comprehension strategy."},
		{"What is a common pitfall when applying {topic} rules?", "Over-generalizing a rule to every case", []string{"Using examples to check understanding", "Reviewing exceptions", "Listening to authentic speech"}, "Most rules in {topic} have exceptions that must be learned."},
		{"Which exercise best reinforces {topic} at an intermediate level?", "Rewriting a short text using new structures", []string{"Copying the alphabet", "Reading only titles", "Skipping all written practice"}, "Productive rewriting forces active use of new structures."},
		{"Why is it useful to compare {topic} with your native language?", "It highlights differences that cause typical errors", []string{"Languages never differ in structure", "It guarantees perfect pronunciation", "It removes the need for practice"}, "Contrastive analysis predicts interference errors."},
	},
	models.DifficultyAdvanced: {
		{"Which nuance is most important when mastering {topic} at an advanced level?", "Register and tone appropriate to the situation", []string{"Spelling of basic words", "Counting from one to ten", "Naming the days of the week"}, "Advanced users adapt {topic} to audience and purpose."},
		{"How do advanced learners typically refine their command of {topic}?", "Analysing authentic texts for subtle usage patterns", []string{"Repeating beginner drills indefinitely", "Avoiding native materials", "Relying only on machine translation"}, "Authentic input exposes collocations and nuance."},
		{"What distinguishes near-native use of {topic}?", "Choosing expressions that fit idiomatic collocations", []string{"Using the longest words available", "Speaking as fast as possible", "Avoiding any figurative language"}, "Idiomatic word choice marks near-native proficiency."},
		{"Which task best demonstrates advanced competence in {topic}?", "Paraphrasing a complex argument without losing meaning", []string{"Listing basic vocabulary", "Filling in single letters", "Matching pictures to nouns"}, "Paraphrase requires control of both meaning and form."},
		{"When might a grammatically correct sentence about {topic} still sound unnatural?", "When it ignores conventional word choice or rhythm", []string{"Never, correct grammar always sounds natural", "Only when it is written down", "Only when it contains numbers"}, "Naturalness depends on convention, not only on rules."},
	},
}

var vocabPool = map[models.Difficulty][]template{
	models.DifficultyBeginner: {
		{"What does \"grateful\" mean?", "Feeling thankful", []string{"Feeling angry", "Feeling sleepy", "Feeling lost"}, "\"Grateful\" means feeling or showing thanks."},
		{"What does \"borrow\" mean?", "To take something with the intention of returning it", []string{"To give something away forever", "To sell something", "To break something"}, "You borrow something and later give it back."},
		{"What does \"journey\" mean?", "A trip from one place to another", []string{"A type of food", "A piece of furniture", "A musical instrument"}, "A journey is an act of travelling."},
		{"What does \"busy\" mean?", "Having a lot to do", []string{"Having nothing to do", "Feeling very cold", "Being very tall"}, "Someone busy has many tasks to complete."},
		{"What does \"neighbor\" mean?", "A person who lives near you", []string{"A person who lives far away", "A kind of vehicle", "A building for storing food"}, "Neighbors live next door or nearby."},
	},
	models.DifficultyIntermediate: {
		{"What does \"reluctant\" mean?", "Unwilling and hesitant", []string{"Eager and excited", "Tired and sleepy", "Loud and noisy"}, "A reluctant person does something without wanting to."},
		{"What does \"thorough\" mean?", "Complete and paying attention to every detail", []string{"Quick and careless", "Partial and unfinished", "Expensive and rare"}, "Thorough work leaves nothing out."},
		{"What does \"cope\" mean?", "To deal successfully with a difficult situation", []string{"To avoid a situation entirely", "To celebrate an achievement", "To forget something important"}, "Coping means managing difficulty."},
		{"What does \"reliable\" mean?", "Able to be trusted", []string{"Always late", "Easily broken", "Difficult to understand"}, "Reliable people or things can be depended on."},
		{"What does \"outcome\" mean?", "The result of an action or event", []string{"The beginning of a process", "A type of clothing", "An outdoor activity"}, "An outcome is how something turns out."},
	},
	models.DifficultyAdvanced: {
		{"What does \"ubiquitous\" mean?", "Present or found everywhere", []string{"Extremely rare", "Hidden from view", "Very old-fashioned"}, "Something ubiquitous seems to be everywhere at once."},
		{"What does \"ephemeral\" mean?", "Lasting for a very short time", []string{"Lasting forever", "Extremely heavy", "Easily repeated"}, "Ephemeral things are fleeting."},
		{"What does \"meticulous\" mean?", "Showing great attention to detail", []string{"Careless and hasty", "Loud and aggressive", "Generous with money"}, "A meticulous person is extremely careful and precise."},
		{"What does \"pragmatic\" mean?", "Dealing with things sensibly and realistically", []string{"Idealistic and impractical", "Emotionally unstable", "Deliberately secretive"}, "Pragmatic choices are based on practical considerations."},
		{"What does \"ambivalent\" mean?", "Having mixed feelings about something", []string{"Completely certain", "Extremely enthusiastic", "Totally indifferent"}, "Ambivalence is holding contradictory feelings at once."},
	},
}

var grammarPool = map[models.Difficulty][]template{
	models.DifficultyBeginner: {
		{"She ___ to school every day.", "goes", []string{"go", "going", "gone"}, "Third-person singular subjects take -s/-es in the present simple."},
		{"I ___ a student.", "am", []string{"is", "are", "be"}, "The first person singular of 'to be' is 'am'."},
		{"They ___ football yesterday.", "played", []string{"play", "plays", "playing"}, "'Yesterday' signals the past simple."},
		{"There ___ two apples on the table.", "are", []string{"is", "am", "be"}, "Plural nouns take 'are' after 'there'."},
		{"He doesn't ___ coffee.", "like", []string{"likes", "liked", "liking"}, "After 'doesn't' use the base form of the verb."},
	},
	models.DifficultyIntermediate: {
		{"If it rains tomorrow, we ___ at home.", "will stay", []string{"stayed", "would have stayed", "stay"}, "First conditional: if + present simple, will + base verb."},
		{"I have lived here ___ 2015.", "since", []string{"for", "during", "from"}, "'Since' marks a starting point with the present perfect."},
		{"The report ___ by the team last week.", "was written", []string{"wrote", "has written", "is writing"}, "Past passive: was/were + past participle."},
		{"She asked me where I ___.", "lived", []string{"live", "do live", "am living"}, "Reported questions shift the tense back and use statement word order."},
		{"You ___ wear a seatbelt; it's the law.", "must", []string{"might", "could", "would"}, "'Must' expresses obligation."},
	},
	models.DifficultyAdvanced: {
		{"Had I known about the delay, I ___ earlier.", "would have left", []string{"would leave", "left", "had left"}, "Inverted third conditional: had + subject + past participle, then would have + past participle."},
		{"Not only ___ late, but he also forgot the tickets.", "was he", []string{"he was", "he is", "is he being"}, "A fronted negative adverbial triggers subject-auxiliary inversion."},
		{"It's high time we ___ a decision.", "made", []string{"make", "will make", "have made"}, "'It's high time' is followed by the past simple with present meaning."},
		{"The committee insisted that he ___ present.", "be", []string{"is", "was", "will be"}, "The mandative subjunctive uses the base form after 'insist that'."},
		{"Scarcely ___ the door when the phone rang.", "had she opened", []string{"she had opened", "did she open", "she opened"}, "'Scarcely ... when' takes inversion with the past perfect."},
	},
}

// ContextAware validates in and then builds mode-specific template questions.
// At most the pool size is returned even when more were requested.
func (g *Generator) ContextAware(in QuizInput) ([]models.Question, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	count := DefaultQuestionCount
	if in.QuestionCount != nil {
		count = *in.QuestionCount
	}
	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyIntermediate
	}
	mode := in.Mode
	if mode == "" {
		mode = models.FocusVocab
	}
	topic := topicLabel(in.Topic)

	g.mu.Lock()
	defer g.mu.Unlock()

	switch mode {
	case models.FocusVocab:
		return g.fromPool(vocabPool[difficulty], count, topic, difficulty, topicTags(in.Topic, "vocab", string(difficulty))), nil
	case models.FocusGrammar:
		return g.fromPool(grammarPool[difficulty], count, topic, difficulty, topicTags(in.Topic, "grammar", string(difficulty))), nil
	}

	source := strings.TrimSpace(in.SourceText)
	if utf8.RuneCountInString(source) > minSourceTextLength {
		pool := comprehensionPool(source, strings.TrimSpace(in.Topic))
		return g.fromPool(pool, count, topic, difficulty, topicTags(in.Topic, "comprehension", string(difficulty))), nil
	}
	return g.fromPool(genericPool[difficulty], count, topic, difficulty, topicTags(in.Topic, "comprehension", string(difficulty))), nil
}

// comprehensionPool builds questions that quote the opening of the source text
func comprehensionPool(source, topic string) []template {
	excerpt, n := firstWords(source, excerptWords)
	short, _ := firstWords(source, shortExcerptWords)
	theme := topic
	if theme == "" {
		theme = "the Passage"
	}
	// quotes in the source would break the phrasing of the options
	excerpt = strings.ReplaceAll(excerpt, `"`, "'")
	short = strings.ReplaceAll(short, `"`, "'")

	return []template{
		{
			"According to the passage, which of these excerpts appears in the text?",
			fmt.Sprintf("\"%s\"", excerpt),
			[]string{"\"The weather forecast predicts heavy snow for the entire week...\"", "\"Our company is pleased to announce its annual results...\"", "\"Once upon a time, a dragon guarded a golden castle...\""},
			"The correct option quotes the opening words of the passage.",
		},
		{
			"What is the main focus of the passage?",
			fmt.Sprintf("The ideas introduced in \"%s\"", short),
			[]string{"A recipe for traditional bread", "The rules of a board game", "Instructions for assembling furniture"},
			"The opening lines of a text usually introduce its main focus.",
		},
		{
			"Which statement best describes how the passage begins?",
			fmt.Sprintf("It opens with: \"%s\"", excerpt),
			[]string{"It opens with a table of statistics", "It opens with a personal apology", "It opens with a dialogue between two characters"},
			"Re-read the first sentence to see how the writer begins.",
		},
		{
			fmt.Sprintf("What would be the best title for a text that starts \"%s\"?", short),
			fmt.Sprintf("A Closer Look at %s", theme),
			[]string{"Cooking for Beginners", "A History of Space Travel", "Repairing Old Bicycles"},
			"A good title reflects the subject the passage introduces.",
		},
		{
			fmt.Sprintf("How many words are in the opening excerpt \"%s\"?", excerpt),
			strconv.Itoa(n),
			[]string{strconv.Itoa(n + 1), strconv.Itoa(n + 3), strconv.Itoa(n + 6)},
			"Count each space-separated word in the excerpt.",
		},
	}
}

// firstWords returns up to n leading words and how many were taken
func firstWords(s string, n int) (string, int) {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " "), len(words)
}
