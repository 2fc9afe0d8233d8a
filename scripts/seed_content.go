// Seeds demo courses, lessons, exercises and games so a fresh install has
// something to show. Safe to re-run: seeding is skipped when courses exist.
//
// Usage: go run scripts/seed_content.go
package main

import (
	"encoding/json"
	"log"

	"ecolearn_backend/internal/config"
	"ecolearn_backend/internal/grader"
	"ecolearn_backend/internal/model"
	"ecolearn_backend/pkg/database"
	"ecolearn_backend/pkg/logger"
)

func mustSpec(spec grader.Spec) string {
	raw, err := json.Marshal(spec)
	if err != nil {
		log.Fatalf("marshal spec: %v", err)
	}
	return string(raw)
}

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	var count int64
	db.Model(&model.Course{}).Count(&count)
	if count > 0 {
		log.Println("courses already present, nothing to do")
		return
	}

	course5 := model.Course{
		Title:       "رحلة إلى عالم البيئة",
		Description: "مقدمة في حماية البيئة للصف الخامس",
		GradeLevel:  model.Grade5,
		Order:       1,
		IsPublished: true,
	}
	course6 := model.Course{
		Title:       "حماة الكوكب",
		Description: "التغير المناخي والطاقة المتجددة للصف السادس",
		GradeLevel:  model.Grade6,
		Order:       1,
		IsPublished: true,
	}
	if err := db.Create(&course5).Error; err != nil {
		log.Fatalf("seed course: %v", err)
	}
	if err := db.Create(&course6).Error; err != nil {
		log.Fatalf("seed course: %v", err)
	}

	lessons := []model.Lesson{
		{CourseID: course5.ID, Title: "ما هي البيئة؟", Order: 1, Content: "البيئة هي كل ما يحيط بنا من ماء وهواء وتربة وكائنات حية."},
		{CourseID: course5.ID, Title: "فرز النفايات", Order: 2, Content: "نتعلم كيف نفرز النفايات حسب نوعها لإعادة التدوير."},
		{CourseID: course6.ID, Title: "التغير المناخي", Order: 1, Content: "لماذا ترتفع حرارة الأرض وما دورنا في الحد من ذلك؟"},
	}
	for i := range lessons {
		if err := db.Create(&lessons[i]).Error; err != nil {
			log.Fatalf("seed lesson: %v", err)
		}
	}

	exercises := []model.Exercise{
		{
			LessonID: lessons[0].ID,
			Kind:     string(grader.KindChoice),
			Title:    "أي من هذه يلوث الهواء؟",
			Points:   10,
			Spec: mustSpec(grader.Spec{
				Kind: grader.KindChoice, MaxScore: 10, CorrectChoice: "b",
			}),
		},
		{
			LessonID: lessons[1].ID,
			Kind:     string(grader.KindMulti),
			Title:    "اختر المواد القابلة لإعادة التدوير",
			Points:   10,
			Spec: mustSpec(grader.Spec{
				Kind: grader.KindMulti, MaxScore: 10,
				Options: []grader.Option{
					{ID: "paper", Correct: true},
					{ID: "glass", Correct: true},
					{ID: "battery", Correct: false},
					{ID: "metal", Correct: true},
				},
			}),
		},
		{
			LessonID: lessons[1].ID,
			Kind:     string(grader.KindMatching),
			Title:    "صل كل نفاية بحاويتها",
			Points:   15,
			Spec: mustSpec(grader.Spec{
				Kind: grader.KindMatching, MaxScore: 15,
				Pairs: []grader.Pair{
					{Left: "ورق", Right: "الحاوية الزرقاء"},
					{Left: "زجاج", Right: "الحاوية الخضراء"},
					{Left: "بلاستيك", Right: "الحاوية الصفراء"},
				},
			}),
		},
		{
			LessonID: lessons[2].ID,
			Kind:     string(grader.KindShort),
			Title:    "اذكر مصدرين للطاقة المتجددة",
			Points:   10,
			Spec: mustSpec(grader.Spec{
				Kind: grader.KindShort, MaxScore: 10,
				Keywords: []string{"الشمس", "الرياح"},
			}),
		},
		{
			LessonID: lessons[2].ID,
			Kind:     string(grader.KindDragSequence),
			Title:    "رتب مراحل إعادة تدوير الورق",
			Points:   12,
			Spec: mustSpec(grader.Spec{
				Kind: grader.KindDragSequence, MaxScore: 12,
				CorrectOrder: []string{"collect", "sort", "pulp", "press"},
			}),
		},
	}
	for i := range exercises {
		if err := db.Create(&exercises[i]).Error; err != nil {
			log.Fatalf("seed exercise: %v", err)
		}
	}

	games := []model.Game{
		{
			Title:       "لعبة فرز النفايات",
			Description: "اسحب كل نفاية إلى الحاوية الصحيحة قبل انتهاء الوقت",
			GradeLevel:  model.Grade5,
			Kind:        string(grader.KindMatching),
			Points:      20,
			IsPublished: true,
			Spec: mustSpec(grader.Spec{
				Kind: grader.KindMatching, MaxScore: 20,
				Pairs: []grader.Pair{
					{Left: "قشر الموز", Right: "عضوي"},
					{Left: "علبة مشروب", Right: "معدن"},
					{Left: "جريدة", Right: "ورق"},
				},
			}),
		},
		{
			Title:       "إصلاح الملصق البيئي",
			Description: "أعد الملصق التالف إلى صورته الصحيحة",
			GradeLevel:  model.Grade6,
			Kind:        string(grader.KindStickerRepair),
			Points:      15,
			IsPublished: true,
			Spec: mustSpec(grader.Spec{
				Kind: grader.KindStickerRepair, MaxScore: 15, CorrectChoice: "recycle-logo",
			}),
		},
	}
	for i := range games {
		if err := db.Create(&games[i]).Error; err != nil {
			log.Fatalf("seed game: %v", err)
		}
	}

	log.Printf("seeded %d courses, %d lessons, %d exercises, %d games",
		2, len(lessons), len(exercises), len(games))
}
