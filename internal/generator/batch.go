package generator

import (
	"fmt"
	"unicode"

	"linguaquiz/internal/models"
	"linguaquiz/internal/random"
)

var (
	batchSubjects = []string{
		"a traveler", "a student", "your manager", "a new colleague", "a close friend",
		"a shop assistant", "your teacher", "a tour guide", "a host family", "a job interviewer",
	}
	batchVerbs = []string{
		"use", "explain", "respond to", "interpret", "introduce", "paraphrase", "react to", "clarify",
	}
	batchContexts = []string{
		"at a restaurant", "during a job interview", "on a phone call", "in a formal email",
		"at a family dinner", "in a classroom discussion", "at the airport", "while shopping",
		"at a business meeting", "in a text message",
	}
	batchModifiers = []string{
		"politely", "confidently", "casually", "formally", "clearly", "naturally", "briefly", "tactfully",
	}
	batchTopicPhrases = []string{
		"a common %s expression", "an everyday %s phrase", "a tricky %s structure",
		"a useful %s pattern", "an informal %s saying",
	}
	// none of these can collide with the "<Verb> it <modifier>, as suits ..." answer shape
	batchDistractors = []string{
		"Avoid the topic and change the subject",
		"Repeat the phrase louder until understood",
		"Translate it word for word from your native language",
		"Use the most formal wording in every situation",
		"Answer with a single unrelated word",
		"Wait silently until the other person gives up",
		"Switch to a different language entirely",
		"Read a dictionary definition aloud",
		"Use slang regardless of who is listening",
		"Ignore the question and ask another",
		"Write it down instead of speaking",
		"Apologize and end the conversation",
	}
)

type axisTuple struct {
	subject, verb, context, modifier, phrase int
}

// Batch assembles count questions by sampling independent phrase axes.
// Repeated axis combinations are retried up to 50 times and then accepted,
// so unique wording is likely but not guaranteed. count is clamped to [1,200].
func (g *Generator) Batch(topic string, count int) []models.Question {
	if count < 1 {
		count = 1
	}
	if count > MaxQuestionCount {
		count = MaxQuestionCount
	}
	label := normalizeTopic(topic)
	if label == "" {
		label = "language"
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	used := make(map[axisTuple]struct{}, count)
	out := make([]models.Question, 0, count)
	for i := 0; i < count; i++ {
		var tuple axisTuple
		for attempt := 0; attempt < maxUniqueAttempts; attempt++ {
			tuple = g.sampleTuple()
			if _, dup := used[tuple]; !dup {
				break
			}
		}
		used[tuple] = struct{}{}
		out = append(out, g.batchQuestion(tuple, label, models.Levels[i%len(models.Levels)]))
	}
	return out
}

func (g *Generator) sampleTuple() axisTuple {
	return axisTuple{
		subject:  random.IntN(g.src, len(batchSubjects)),
		verb:     random.IntN(g.src, len(batchVerbs)),
		context:  random.IntN(g.src, len(batchContexts)),
		modifier: random.IntN(g.src, len(batchModifiers)),
		phrase:   random.IntN(g.src, len(batchTopicPhrases)),
	}
}

func (g *Generator) batchQuestion(t axisTuple, topic string, difficulty models.Difficulty) models.Question {
	subject := batchSubjects[t.subject]
	verb := batchVerbs[t.verb]
	context := batchContexts[t.context]
	modifier := batchModifiers[t.modifier]
	phrase := fmt.Sprintf(batchTopicPhrases[t.phrase], topic)

	// first optionsPerBatch entries of a shuffled index list are distinct distractors
	idx := random.Range(len(batchDistractors))
	random.Shuffle(g.src, len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	options := make([]string, optionsPerBatch)
	for i := range options {
		options[i] = batchDistractors[idx[i]]
	}
	correct := fmt.Sprintf("%s it %s, as suits a conversation %s", capitalize(verb), modifier, context)
	options[random.IntN(g.src, optionsPerBatch)] = correct

	return models.Question{
		ID:            g.newID(),
		Text:          fmt.Sprintf("How should you %s %s %s when talking with %s %s?", verb, phrase, modifier, subject, context),
		Options:       options,
		CorrectAnswer: correct,
		Explanation:   fmt.Sprintf("Matching your tone (%s) to the situation (%s) is key when you %s %s.", modifier, context, verb, phrase),
		Tags:          []string{topic, "generated", string(difficulty)},
		Difficulty:    difficulty,
		CreatedAt:     g.now(),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
