// Package app 提供游戏应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来：读取配置、创建 Session、
// 连接场景与脚本命令，并实现 ebiten.Game 接口。
package app

import (
	"fmt"
	"image/color"
	"io/fs"
	"path"
	"strings"

	"github.com/decker502/rpgformation/internal/logger"
	"github.com/decker502/rpgformation/internal/rmmap"
	"github.com/decker502/rpgformation/pkg/config"
	"github.com/decker502/rpgformation/pkg/game"
	"github.com/decker502/rpgformation/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	// audioSampleRate 音频采样率
	audioSampleRate = 48000
	// seDir 音效目录（相对数据文件系统根目录）
	seDir = "data/audio/se"
)

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	session      *game.Session
	commands     *game.Commands
	sceneManager *game.SceneManager
	sounds       game.SoundPlayer
	saves        *game.FormationSaveStore
}

// NewApp 创建并初始化游戏应用
//
// 参数：
//   - cfg: 启动配置
//   - dataFS: 根目录下包含 data/ 的文件系统（嵌入数据或 os.DirFS）
//
// 返回：
//   - 配置或数据错误（致命）
func NewApp(cfg Config, dataFS fs.FS) (*App, error) {
	plugin, err := loadPluginConfig(dataFS, cfg.PluginConfig)
	if err != nil {
		return nil, err
	}
	dbData, err := fs.ReadFile(dataFS, cfg.DatabaseConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to read database config %s: %w", cfg.DatabaseConfig, err)
	}
	db, err := config.ParseDatabaseConfig(dbData)
	if err != nil {
		return nil, err
	}

	var fetcher rmmap.Fetcher = rmmap.FSFetcher{FS: dataFS, Dir: "data"}
	if cfg.MapBaseURL != "" {
		fetcher = rmmap.HTTPFetcher{BaseURL: cfg.MapBaseURL}
		logger.Sugar.Infof("[App] maps from %s", cfg.MapBaseURL)
	}
	registry, err := game.NewFormationRegistry(plugin, fetcher)
	if err != nil {
		return nil, err
	}

	a := &App{
		session:      game.NewSession(db, plugin, registry),
		sceneManager: game.NewSceneManager(),
		saves:        game.OpenFormationSaveStore(cfg.SaveName),
	}
	a.commands = game.NewCommands(a.session, a)

	if !cfg.Mute {
		am := game.NewAudioManager(audio.NewContext(audioSampleRate), dataFS, seDir)
		a.sounds = am
		logger.Sugar.Infof("[App] AudioManager initialized")
	}

	a.sceneManager.SwitchTo(scenes.NewLoadingScene(registry, a.onDataReady))
	logger.Sugar.Infof("[App] %s", a.session)
	return a, nil
}

// loadPluginConfig 按扩展名选择格式：.json 为编辑器参数，其余按 YAML 解析
func loadPluginConfig(fsys fs.FS, name string) (*config.FormationPluginConfig, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read formation config %s: %w", name, err)
	}
	if strings.EqualFold(path.Ext(name), ".json") {
		return config.FromPluginParameters(data)
	}
	return config.ParseFormationConfig(data)
}

// onDataReady 地图全部加载后读取存档并进入主菜单
func (a *App) onDataReady() error {
	loaded, err := a.saves.Load(a.session.Formation)
	if err != nil {
		logger.Sugar.Warnf("[App] ignoring unreadable save: %v", err)
	} else if loaded {
		logger.Sugar.Infof("[App] formation state restored from save")
		if err := a.session.NotifyFormationChanged(); err != nil {
			return err
		}
	}
	a.sceneManager.SwitchTo(scenes.NewMainMenuScene(a.session, scenes.MainMenuActions{
		OpenFormation: a.OpenFormationScene,
		StartBattle:   a.StartBattle,
		Save:          a.save,
		Load:          a.load,
	}))
	return nil
}

// OpenFormationScene 实现 game.SceneOpener：在当前场景之上打开编队界面
func (a *App) OpenFormationScene() error {
	scene, err := scenes.NewFormationScene(a.session, a.sounds, func() { a.sceneManager.Pop() })
	if err != nil {
		return err
	}
	a.sceneManager.Push(scene)
	return nil
}

// StartBattle 打开战斗预览
func (a *App) StartBattle() error {
	scene, err := scenes.NewBattleScene(a.session, a.commands, func() { a.sceneManager.Pop() })
	if err != nil {
		return err
	}
	a.sceneManager.Push(scene)
	return nil
}

// save 存档失败不影响游戏
func (a *App) save() error {
	if err := a.saves.Save(a.session.Formation); err != nil {
		logger.Sugar.Warnf("[App] save failed: %v", err)
	}
	return nil
}

func (a *App) load() error {
	loaded, err := a.saves.Load(a.session.Formation)
	if err != nil {
		logger.Sugar.Warnf("[App] load failed: %v", err)
		return nil
	}
	if !loaded {
		return nil
	}
	return a.session.NotifyFormationChanged()
}

// Commands 返回脚本命令集
func (a *App) Commands() *game.Commands {
	return a.commands
}

// Session 返回游戏上下文
func (a *App) Session() *game.Session {
	return a.session
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）；返回错误时游戏循环结束
func (a *App) Update() error {
	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	return a.step(1.0 / 60.0)
}

func (a *App) step(deltaTime float64) error {
	if err := a.session.Err(); err != nil {
		return err
	}
	if err := a.sceneManager.Update(deltaTime); err != nil {
		logger.Sugar.Errorf("[App] fatal: %v", err)
		return err
	}
	return a.session.Err()
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 24, B: 32, A: 255})
	a.sceneManager.Draw(screen)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}
