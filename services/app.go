package services

import (
	"FeeloraGo/config"
	"time"

	"gorm.io/gorm"
)

// App 一次进程内共享的服务
type App struct {
	Store     MoodStore
	Analyzer  *MoodAnalyzer
	Moods     *MoodService
	Vibes     *VibeHub
	Voices    *VoiceHub
	Journals  *JournalStore
	Companion *CompanionService
}

// NewApp 组装服务；db 为空时不提供日记
func NewApp(conf config.Config, gen Generator, store MoodStore, db *gorm.DB, speaker Speaker) *App {
	analyzer := NewMoodAnalyzer(gen, conf.AnalysisTimeout)
	moods := NewMoodService(analyzer, store)

	app := &App{
		Store:     store,
		Analyzer:  analyzer,
		Moods:     moods,
		Vibes:     NewVibeHub(moods, speaker),
		Voices:    NewVoiceHub(),
		Companion: NewCompanionService(gen, store),
	}
	if db != nil {
		app.Journals = NewJournalStore(db)
	}
	return app
}

// NewJanitor 按配置定时清理空闲语音会话
func (a *App) NewJanitor(conf config.Config) (*VoiceJanitor, error) {
	idle := conf.VoiceIdleTimeout
	if idle <= 0 {
		idle = 5 * time.Minute
	}
	return NewVoiceJanitor(a.Voices, conf.VoiceSweepSchedule, idle)
}

// Close 取消进行中的分析并释放语音会话
func (a *App) Close() {
	a.Vibes.Close()
	a.Voices.Close()
}
