package service

import (
	"card_quiz_backend/internal/quiz"
	"context"
	"math"

	"go.uber.org/zap"
)

// KnowledgeResult 单个知识点的掌握情况
type KnowledgeResult struct {
	Name     string  `json:"name"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// AnswerReview 结果页中的单题回顾
type AnswerReview struct {
	Question  QuestionView `json:"question"`
	Answered  bool         `json:"answered"`
	IsCorrect bool         `json:"isCorrect"`
	Score     int          `json:"score"`
}

type LevelResult struct {
	LevelID    uint              `json:"levelId"`
	LevelTitle string            `json:"levelTitle"`
	TotalScore int               `json:"totalScore"`
	UserScore  int               `json:"userScore"`
	Correct    int               `json:"correct"`
	Total      int               `json:"total"`
	Accuracy   float64           `json:"accuracy"`
	Knowledge  []KnowledgeResult `json:"knowledgePoints"`
	Chart      quiz.ChartData    `json:"chartData"`
	Radar      *quiz.RadarSpec   `json:"radar,omitempty"`
	Answers    []AnswerReview    `json:"answers"`
}

// Result 汇总关卡得分、正确率与知识点掌握度，并结束本轮答题
func (s *QuizService) Result(ctx context.Context, userID, levelID uint) (*LevelResult, error) {
	level, questions, err := s.loadLevel(userID, levelID)
	if err != nil {
		return nil, err
	}
	answers, err := s.AnswerRepo.MapByQuestions(userID, questionIDs(questions))
	if err != nil {
		return nil, err
	}

	result := &LevelResult{LevelID: level.ID, LevelTitle: level.Title, Total: len(questions)}
	var stats []quiz.KnowledgeStat
	for _, q := range questions {
		result.TotalScore += q.Score
		a, answered := answers[q.ID]
		correct := answered && a.IsCorrect
		if answered {
			result.UserScore += a.Score
		}
		if correct {
			result.Correct++
		}
		for _, kp := range q.KnowledgePoints {
			stat := quiz.KnowledgeStat{Name: kp.Name, Total: 1}
			if correct {
				stat.Correct = 1
			}
			stats = append(stats, stat)
		}

		data, err := BuildQuestionData(q)
		if err != nil {
			s.Log.Warn("skip malformed question", zap.Uint("questionID", q.ID), zap.Error(err))
			continue
		}
		result.Answers = append(result.Answers, AnswerReview{
			Question:  NewQuestionView(q, data, true),
			Answered:  answered,
			IsCorrect: correct,
			Score:     a.Score,
		})
	}
	if result.Total > 0 {
		result.Accuracy = math.Round(float64(result.Correct)*1000/float64(result.Total)) / 10
	}

	result.Chart = quiz.BuildChartData(stats)
	for i, name := range result.Chart.Labels {
		merged := quiz.KnowledgeStat{Name: name}
		for _, st := range stats {
			if st.Name == name {
				merged.Total += st.Total
				merged.Correct += st.Correct
			}
		}
		result.Knowledge = append(result.Knowledge, KnowledgeResult{
			Name:     name,
			Total:    merged.Total,
			Correct:  merged.Correct,
			Accuracy: result.Chart.Values[i],
		})
	}
	if len(result.Chart.Labels) > 0 {
		radar := quiz.NewRadarSpec(result.Chart)
		result.Radar = &radar
	}

	if err := s.HeartsRepo.Reset(ctx, userID, levelID); err != nil {
		s.Log.Warn("reset hearts failed", zap.Uint("levelID", levelID), zap.Error(err))
	}
	return result, nil
}
