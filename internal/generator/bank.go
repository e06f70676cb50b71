package generator

import (
	"strings"

	"linguaquiz/internal/models"
)

type curatedQuestion struct {
	template
	difficulty models.Difficulty
}

type curatedTopic struct {
	key       string
	questions []curatedQuestion
}

// topicBank is scanned in order so lookups are stable across runs.
var topicBank = []curatedTopic{
	{key: "grammar", questions: []curatedQuestion{
		{template{"Which sentence uses the present perfect correctly?", "I have visited Paris twice.", []string{"I have visit Paris twice.", "I visited Paris since 2010.", "I am visiting Paris twice ago."}, "The present perfect is have/has + past participle."}, models.DifficultyBeginner},
		{template{"Choose the correct article: \"She is ___ honest person.\"", "an", []string{"a", "the", "no article"}, "'Honest' starts with a vowel sound, so it takes 'an'."}, models.DifficultyBeginner},
		{template{"Which word is a preposition of time?", "during", []string{"quickly", "beautiful", "although"}, "'During' introduces a period of time."}, models.DifficultyIntermediate},
		{template{"Identify the relative clause: \"The book that you lent me was great.\"", "that you lent me", []string{"The book", "was great", "lent me was"}, "A relative clause adds information about a noun and begins with a relative pronoun."}, models.DifficultyIntermediate},
		{template{"Which sentence contains a dangling modifier?", "Walking home, the rain soaked my clothes.", []string{"Walking home, I got soaked by the rain.", "The rain soaked me as I walked home.", "I was soaked while walking home."}, "The rain was not walking home; the modifier has no proper subject."}, models.DifficultyAdvanced},
	}},
	{key: "vocabulary", questions: []curatedQuestion{
		{template{"What is the opposite of \"ancient\"?", "modern", []string{"old", "historic", "antique"}, "'Ancient' means very old; 'modern' means recent."}, models.DifficultyBeginner},
		{template{"Which word means \"very happy\"?", "delighted", []string{"exhausted", "furious", "anxious"}, "'Delighted' expresses great pleasure."}, models.DifficultyBeginner},
		{template{"Choose the synonym of \"abundant\".", "plentiful", []string{"scarce", "tiny", "fragile"}, "'Abundant' and 'plentiful' both mean existing in large quantities."}, models.DifficultyIntermediate},
		{template{"What does \"to procrastinate\" mean?", "To delay doing something", []string{"To finish something early", "To plan carefully", "To work very hard"}, "Procrastinating is postponing tasks unnecessarily."}, models.DifficultyIntermediate},
		{template{"Which word best completes: \"Her argument was so ___ that nobody could refute it.\"", "cogent", []string{"tenuous", "verbose", "spurious"}, "'Cogent' means clear, logical and convincing."}, models.DifficultyAdvanced},
	}},
	{key: "idioms", questions: []curatedQuestion{
		{template{"What does \"break the ice\" mean?", "To start a conversation in a relaxed way", []string{"To damage something frozen", "To end a friendship", "To refuse an invitation"}, "Breaking the ice relieves tension at the start of an interaction."}, models.DifficultyBeginner},
		{template{"What does \"a piece of cake\" describe?", "Something very easy", []string{"A small reward", "A difficult challenge", "A birthday celebration"}, "'A piece of cake' means a task that is easy to do."}, models.DifficultyBeginner},
		{template{"If someone \"spills the beans\", what do they do?", "Reveal a secret", []string{"Make a mess while cooking", "Waste money", "Tell a joke"}, "To spill the beans is to disclose secret information."}, models.DifficultyIntermediate},
		{template{"What does \"to bite off more than you can chew\" mean?", "To take on more than you can handle", []string{"To eat too quickly", "To speak rudely", "To refuse help"}, "The idiom warns against over-committing."}, models.DifficultyIntermediate},
		{template{"What is meant by \"a Pyrrhic victory\"?", "A win that costs so much it is almost a defeat", []string{"An easy and decisive win", "A victory celebrated with fire", "A win achieved by cheating"}, "Named after King Pyrrhus, whose victories cost him most of his army."}, models.DifficultyAdvanced},
	}},
	{key: "phrasal verbs", questions: []curatedQuestion{
		{template{"What does \"give up\" mean?", "To stop trying", []string{"To give a present", "To climb higher", "To wake up early"}, "'Give up' means to quit or abandon an effort."}, models.DifficultyBeginner},
		{template{"Choose the phrasal verb meaning \"to find information\".", "look up", []string{"look after", "look forward", "look down"}, "You 'look up' a word in a dictionary."}, models.DifficultyBeginner},
		{template{"What does \"put off\" mean in \"We put off the meeting\"?", "Postponed", []string{"Cancelled forever", "Started early", "Moved to a new room"}, "'Put off' means to delay to a later time."}, models.DifficultyIntermediate},
		{template{"Which phrasal verb means \"to tolerate\"?", "put up with", []string{"put away", "put on", "put through"}, "'Put up with' means to accept something unpleasant."}, models.DifficultyIntermediate},
		{template{"What does \"to gloss over\" a problem mean?", "To treat it superficially to hide its importance", []string{"To polish it until it shines", "To explain it in great detail", "To solve it permanently"}, "Glossing over something avoids dealing with it properly."}, models.DifficultyAdvanced},
	}},
	{key: "travel", questions: []curatedQuestion{
		{template{"What do you show at passport control?", "Your passport", []string{"Your menu", "Your receipt", "Your umbrella"}, "Border officers check passports at passport control."}, models.DifficultyBeginner},
		{template{"Which phrase asks for directions politely?", "Excuse me, could you tell me the way to the station?", []string{"Station. Where.", "Give me the station now.", "You know station?"}, "'Could you tell me' is a polite indirect request."}, models.DifficultyBeginner},
		{template{"What is a \"layover\"?", "A stop between connecting flights", []string{"A hotel upgrade", "A type of luggage", "A cancelled flight"}, "A layover is time spent at an airport between flights."}, models.DifficultyIntermediate},
		{template{"Which sentence correctly makes a reservation?", "I'd like to book a double room for two nights.", []string{"I like book room double two night.", "Book me a room, two nights double please me.", "I would liking a room for two nights."}, "'I'd like to book' is the standard polite form."}, models.DifficultyIntermediate},
		{template{"What does it mean if a fare is \"non-refundable\"?", "You cannot get your money back if you cancel", []string{"The ticket is free", "You can change it at any time", "The price includes meals"}, "Non-refundable fares are cheaper but cannot be reimbursed."}, models.DifficultyAdvanced},
	}},
	{key: "business english", questions: []curatedQuestion{
		{template{"What is an \"agenda\" in a meeting?", "A list of topics to discuss", []string{"A type of contract", "The meeting room", "A salary increase"}, "An agenda sets out the items a meeting will cover."}, models.DifficultyBeginner},
		{template{"Which is the most appropriate email closing?", "Kind regards,", []string{"See ya!", "Whatever,", "Bye bye bye"}, "'Kind regards' is a neutral, professional sign-off."}, models.DifficultyBeginner},
		{template{"What does \"to touch base\" mean?", "To briefly make contact", []string{"To sign a contract", "To play a sport", "To fire an employee"}, "Touching base is a quick check-in with someone."}, models.DifficultyIntermediate},
		{template{"What is a \"deadline\"?", "The latest time by which something must be done", []string{"A cancelled project", "A dangerous task", "A meeting that ended early"}, "Deadlines mark when work must be completed."}, models.DifficultyIntermediate},
		{template{"In negotiations, what is a \"BATNA\"?", "Your best alternative if no agreement is reached", []string{"The final signed agreement", "The opening price offer", "A legal penalty clause"}, "BATNA stands for Best Alternative To a Negotiated Agreement."}, models.DifficultyAdvanced},
	}},
}

// FromTopicBank looks up a curated bank whose key matches topic as a substring
// in either direction and returns up to count fresh copies of its questions.
func (g *Generator) FromTopicBank(topic string, count int) ([]models.Question, bool) {
	t := normalizeTopic(topic)
	if t == "" {
		return nil, false
	}
	for _, entry := range topicBank {
		if !strings.Contains(entry.key, t) && !strings.Contains(t, entry.key) {
			continue
		}
		n := count
		if n > len(entry.questions) {
			n = len(entry.questions)
		}
		g.mu.Lock()
		defer g.mu.Unlock()
		out := make([]models.Question, 0, n)
		for _, cq := range entry.questions[:n] {
			out = append(out, g.build(cq.template, topic, cq.difficulty, []string{entry.key, string(cq.difficulty)}))
		}
		return out, true
	}
	return nil, false
}

// TopicQuiz answers from the curated bank when the topic matches one,
// otherwise from the generic template pool for the requested difficulty.
func (g *Generator) TopicQuiz(topic string, count int, difficulty models.Difficulty) []models.Question {
	if count <= 0 {
		count = DefaultQuestionCount
	}
	if qs, ok := g.FromTopicBank(topic, count); ok {
		return qs
	}
	if !difficulty.Valid() {
		difficulty = models.DifficultyIntermediate
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fromPool(genericPool[difficulty], count, topicLabel(topic), difficulty, topicTags(topic, string(difficulty)))
}

func topicLabel(topic string) string {
	if t := strings.TrimSpace(topic); t != "" {
		return t
	}
	return "this language"
}
