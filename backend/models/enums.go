package models

import "strings"

// Level is a CEFR proficiency band, A1 lowest and C2 highest.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

var Levels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

func ParseLevel(s string) (Level, bool) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Levels {
		if l == known {
			return l, true
		}
	}
	return "", false
}

type NativeLanguage string

const (
	NativeEnglish    NativeLanguage = "EN"
	NativeArabic     NativeLanguage = "AR"
	NativeSpanish    NativeLanguage = "ES"
	NativeFrench     NativeLanguage = "FR"
	NativeItalian    NativeLanguage = "IT"
	NativePortuguese NativeLanguage = "PT"
	NativeRussian    NativeLanguage = "RU"
	NativeTurkish    NativeLanguage = "TR"
	NativeChinese    NativeLanguage = "ZH"
)

var NativeLanguages = []NativeLanguage{
	NativeEnglish, NativeArabic, NativeSpanish, NativeFrench, NativeItalian,
	NativePortuguese, NativeRussian, NativeTurkish, NativeChinese,
}

func ParseNativeLanguage(s string) (NativeLanguage, bool) {
	n := NativeLanguage(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range NativeLanguages {
		if n == known {
			return n, true
		}
	}
	return "", false
}

type LessonType string

const (
	LessonVocabulary LessonType = "VOCABULARY"
	LessonGrammar    LessonType = "GRAMMAR"
	LessonExercise   LessonType = "EXERCISE"
	LessonReading    LessonType = "READING"
	LessonListening  LessonType = "LISTENING"
)

func ParseLessonType(s string) (LessonType, bool) {
	t := LessonType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case LessonVocabulary, LessonGrammar, LessonExercise, LessonReading, LessonListening:
		return t, true
	}
	return "", false
}

type ExerciseType string

const (
	ExerciseMultipleChoice ExerciseType = "MULTIPLE_CHOICE"
	ExerciseFillBlank      ExerciseType = "FILL_BLANK"
	ExerciseTranslation    ExerciseType = "TRANSLATION"
	ExerciseMatching       ExerciseType = "MATCHING"
)

func ParseExerciseType(s string) (ExerciseType, bool) {
	t := ExerciseType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case ExerciseMultipleChoice, ExerciseFillBlank, ExerciseTranslation, ExerciseMatching:
		return t, true
	}
	return "", false
}

type AchievementType string

const (
	AchievementLessons    AchievementType = "LESSONS"
	AchievementStreak     AchievementType = "STREAK"
	AchievementVocabulary AchievementType = "VOCABULARY"
	AchievementLevel      AchievementType = "LEVEL"
)

// ChatMode picks the tutor persona for a session.
type ChatMode string

const (
	ChatModeBeginner     ChatMode = "BEGINNER"
	ChatModeGrammar      ChatMode = "GRAMMAR"
	ChatModeConversation ChatMode = "CONVERSATION"
)

// ParseChatMode accepts any casing ("grammar", "GRAMMAR").
func ParseChatMode(s string) (ChatMode, bool) {
	m := ChatMode(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case ChatModeBeginner, ChatModeGrammar, ChatModeConversation:
		return m, true
	}
	return "", false
}

// Display is the human label used in auto-generated session titles.
func (m ChatMode) Display() string {
	switch m {
	case ChatModeGrammar:
		return "Grammar Explanation"
	case ChatModeConversation:
		return "Conversation Practice"
	default:
		return "Beginner Mode"
	}
}

type MessageRole string

const (
	RoleUser      MessageRole = "USER"
	RoleAssistant MessageRole = "ASSISTANT"
)
