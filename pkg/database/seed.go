package database

import (
	"card_quiz_backend/internal/model"
	"encoding/json"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type seedLevel struct {
	title      string
	contentRef string
	boss       bool
	midterm    bool
	final      bool
}

type seedUnit struct {
	name   string
	levels []seedLevel
}

var sampleUnits = []seedUnit{
	{"童话世界", []seedLevel{
		{title: "大青树下的小学", contentRef: "第1课"},
		{title: "花的学校", contentRef: "第2课"},
		{title: "不懂就要问", contentRef: "第3课"},
		{title: "单元挑战", boss: true},
	}},
	{"金秋时节", []seedLevel{
		{title: "古诗三首", contentRef: "第4课"},
		{title: "铺满金色巴掌的水泥道", contentRef: "第5课"},
		{title: "秋天的雨", contentRef: "第6课"},
		{title: "听听，秋的声音", contentRef: "第7课"},
		{title: "单元挑战", boss: true},
	}},
	{"童话王国", []seedLevel{
		{title: "去年的树", contentRef: "第8课"},
		{title: "那一定会很好", contentRef: "第9课"},
		{title: "在牛肚子里旅行", contentRef: "第10课"},
		{title: "单元挑战", boss: true},
	}},
	{"期中综合挑战", []seedLevel{
		{title: "期中大挑战", midterm: true},
	}},
	{"预测与推理", []seedLevel{
		{title: "总也倒不了的老屋", contentRef: "第12课"},
		{title: "胡萝卜先生的长胡子", contentRef: "第13课"},
		{title: "不会叫的狗", contentRef: "第14课"},
		{title: "单元挑战", boss: true},
	}},
	{"期末综合挑战", []seedLevel{
		{title: "期末大挑战", final: true},
	}},
}

var sampleKnowledgePoints = []model.KnowledgePoint{
	{Name: "课文内容理解", Category: "阅读"},
	{Name: "词语理解", Category: "词汇"},
	{Name: "词语辨析", Category: "词汇"},
	{Name: "文体特征", Category: "文学常识"},
	{Name: "中心思想理解", Category: "阅读"},
	{Name: "主题归纳", Category: "阅读"},
	{Name: "文学常识", Category: "文学常识"},
}

type seedQuestion struct {
	level     int
	kind      model.QuestionType
	content   string
	score     int
	options   []model.ChoiceOption
	correct   interface{}
	matches   interface{}
	left      []model.MatchItem
	right     []model.MatchItem
	blanks    int
	explain   string
	knowledge string
}

func abcd(a, b, c, d string) []model.ChoiceOption {
	return []model.ChoiceOption{{ID: "A", Content: a}, {ID: "B", Content: b}, {ID: "C", Content: c}, {ID: "D", Content: d}}
}

// 第一单元示例题目，覆盖四种题型
var sampleQuestions = []seedQuestion{
	{level: 0, kind: model.QuestionMultipleChoice, content: "课文《大青树下的小学》中，小鸟们的学校在哪里？", score: 5,
		options: abcd("大青树上", "森林里", "草地上", "河边"), correct: []string{"A"},
		explain: "课文中描述小鸟们的学校在大青树上。", knowledge: "课文内容理解"},
	{level: 0, kind: model.QuestionMultipleChoice, content: "\"叽叽喳喳\"是形容什么声音的词语？", score: 5,
		options: abcd("流水的声音", "风吹树叶的声音", "小鸟的声音", "虫子的声音"), correct: []string{"C"},
		explain: "\"叽叽喳喳\"是形容小鸟叫声的拟声词。", knowledge: "词语理解"},
	{level: 0, kind: model.QuestionTrueFalse, content: "《大青树下的小学》是一篇童话故事。", score: 3,
		correct: true, explain: "通过拟人化的手法描写小鸟学校的情景。", knowledge: "文体特征"},
	{level: 0, kind: model.QuestionTrueFalse, content: "课文中的小鸟学校只在春天开课。", score: 3,
		correct: false, explain: "课文中没有提到小鸟学校只在春天开课。", knowledge: "课文内容理解"},
	{level: 0, kind: model.QuestionFillBlank, content: "\"婉转\"常用来形容小鸟____的声音。", score: 4,
		correct: []interface{}{[]string{"唱歌", "歌唱"}}, blanks: 1,
		explain: "\"婉转\"形容声音柔和、悦耳。", knowledge: "词语理解"},
	{level: 1, kind: model.QuestionMultipleChoice, content: "《花的学校》中，谁是花朵们的老师？", score: 5,
		options: abcd("春风", "阳光", "雨滴", "泥土"), correct: []string{"A"},
		explain: "课文中描述春风是花朵们的老师。", knowledge: "课文内容理解"},
	{level: 1, kind: model.QuestionTrueFalse, content: "《花的学校》这篇课文是印度诗人泰戈尔写的。", score: 3,
		correct: true, explain: "《花的学校》是印度诗人泰戈尔的作品。", knowledge: "文学常识"},
	{level: 1, kind: model.QuestionFillBlank, content: "《花的学校》的作者是____国诗人____。", score: 4,
		correct: []interface{}{"印度", []string{"泰戈尔", "罗宾德拉纳特·泰戈尔"}}, blanks: 2,
		explain: "泰戈尔是印度诗人。", knowledge: "文学常识"},
	{level: 2, kind: model.QuestionMultipleChoice, content: "课文告诉我们什么道理？", score: 5,
		options: abcd("天空是蓝色的", "妈妈很聪明", "不懂就要问", "小孩子很可爱"), correct: []string{"C"},
		explain: "课文的中心思想是\"不懂就要问\"。", knowledge: "中心思想理解"},
	{level: 3, kind: model.QuestionMatching, content: "把课文和它的主角连起来。", score: 6,
		left:    []model.MatchItem{{ID: 1, Content: "《大青树下的小学》"}, {ID: 2, Content: "《花的学校》"}, {ID: 3, Content: "《不懂就要问》"}},
		right:   []model.MatchItem{{ID: 1, Content: "花朵"}, {ID: 2, Content: "孙中山"}, {ID: 3, Content: "小学生"}},
		matches: []map[string]int{{"left": 1, "right": 3}, {"left": 2, "right": 1}, {"left": 3, "right": 2}},
		explain: "三篇课文的主角分别是小学生、花朵和孙中山。", knowledge: "主题归纳"},
	{level: 3, kind: model.QuestionTrueFalse, content: "第一单元的课文告诉我们，只有在学校里才能学习知识。", score: 3,
		correct: false, explain: "《不懂就要问》强调了在生活中也可以学习。", knowledge: "中心思想理解"},
}

func mustJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return datatypes.JSON(data)
}

// SeedSampleData 课程为空时写入三年级语文上册示例数据
func SeedSampleData(db *gorm.DB) error {
	var count int64
	db.Model(&model.Course{}).Count(&count)
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		course := &model.Course{Grade: "三年级", Subject: "语文", Term: "上册"}
		if err := tx.Create(course).Error; err != nil {
			return err
		}

		var firstUnitLevels []model.Level
		for unitOrder, u := range sampleUnits {
			unit := &model.Unit{CourseID: course.ID, Name: u.name, Order: unitOrder + 1}
			if err := tx.Create(unit).Error; err != nil {
				return err
			}
			for levelOrder, l := range u.levels {
				level := model.Level{
					UnitID:     unit.ID,
					Title:      l.title,
					ContentRef: l.contentRef,
					IsBoss:     l.boss,
					IsMidterm:  l.midterm,
					IsFinal:    l.final,
					Order:      levelOrder + 1,
				}
				if err := tx.Create(&level).Error; err != nil {
					return err
				}
				if unitOrder == 0 {
					firstUnitLevels = append(firstUnitLevels, level)
				}
			}
		}

		points := make(map[string]model.KnowledgePoint, len(sampleKnowledgePoints))
		for _, kp := range sampleKnowledgePoints {
			kp := kp
			if err := tx.Create(&kp).Error; err != nil {
				return err
			}
			points[kp.Name] = kp
		}

		orders := map[int]int{}
		for _, sq := range sampleQuestions {
			if sq.level >= len(firstUnitLevels) {
				continue
			}
			q := model.Question{
				LevelID:        firstUnitLevels[sq.level].ID,
				Type:           sq.kind,
				Content:        sq.content,
				Difficulty:     1,
				Score:          sq.score,
				Order:          orders[sq.level],
				Options:        mustJSON(nilIfEmpty(sq.options)),
				CorrectAnswer:  mustJSON(sq.correct),
				CorrectMatches: mustJSON(sq.matches),
				LeftItems:      mustJSON(nilIfEmpty(sq.left)),
				RightItems:     mustJSON(nilIfEmpty(sq.right)),
				BlanksCount:    sq.blanks,
				Explanation:    sq.explain,
			}
			orders[sq.level]++
			if kp, ok := points[sq.knowledge]; ok {
				q.KnowledgePoints = []model.KnowledgePoint{kp}
			}
			if err := tx.Create(&q).Error; err != nil {
				return err
			}
		}

		log.Println("Sample course data seeded")
		return nil
	})
}

func nilIfEmpty[T any](items []T) interface{} {
	if len(items) == 0 {
		return nil
	}
	return items
}
