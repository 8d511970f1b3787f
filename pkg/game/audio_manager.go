package game

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"

	au "github.com/decker502/rpgformation/internal/audio"
	"github.com/decker502/rpgformation/internal/logger"
	"github.com/decker502/rpgformation/pkg/config"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// SoundPlayer 播放界面音效
type SoundPlayer interface {
	PlaySE(se config.SoundEffect) bool
}

// AudioManager 音效播放（ebiten audio）
//
// 音效文件位于 dir 下，按 .ogg、.wav、.au 顺序查找 <name>.<ext>。
// 解码时重采样到 context 的采样率；播放器按名称缓存，重复播放时倒带。
type AudioManager struct {
	context *audio.Context
	fsys    fs.FS
	dir     string
	enabled bool

	players map[string]*audio.Player
	missing map[string]bool
}

// NewAudioManager 创建音效管理器
// context 为 nil 时所有播放请求被忽略
func NewAudioManager(context *audio.Context, fsys fs.FS, dir string) *AudioManager {
	return &AudioManager{
		context: context,
		fsys:    fsys,
		dir:     dir,
		enabled: true,
		players: make(map[string]*audio.Player),
		missing: make(map[string]bool),
	}
}

// SetEnabled 开关音效
func (am *AudioManager) SetEnabled(enabled bool) {
	am.enabled = enabled
}

// PlaySE 播放音效
// 返回：是否实际播放（名称为空、音效关闭或加载失败时返回 false）
func (am *AudioManager) PlaySE(se config.SoundEffect) bool {
	if !am.enabled || am.context == nil || se.Name == "" {
		return false
	}
	player := am.getPlayer(se.Name)
	if player == nil {
		return false
	}

	player.SetVolume(clampVolume(se.Volume / 100))
	if err := player.Rewind(); err != nil {
		logger.Sugar.Warnf("[AudioManager] failed to rewind %s: %v", se.Name, err)
	}
	player.Play()
	return true
}

func (am *AudioManager) getPlayer(name string) *audio.Player {
	if p, ok := am.players[name]; ok {
		return p
	}
	if am.missing[name] {
		return nil
	}
	p, err := am.load(name)
	if err != nil {
		// 只记录一次，避免每次按键刷屏
		logger.Sugar.Warnf("[AudioManager] %v", err)
		am.missing[name] = true
		return nil
	}
	am.players[name] = p
	return p
}

func (am *AudioManager) load(name string) (*audio.Player, error) {
	rate := am.context.SampleRate()
	for _, ext := range []string{".ogg", ".wav", ".au"} {
		file := path.Join(am.dir, name+ext)
		data, err := fs.ReadFile(am.fsys, file)
		if err != nil {
			continue
		}

		var stream io.Reader
		reader := bytes.NewReader(data)
		switch ext {
		case ".ogg":
			decoded, err := vorbis.DecodeWithSampleRate(rate, reader)
			if err != nil {
				return nil, fmt.Errorf("failed to decode OGG sound effect %s: %w", file, err)
			}
			stream = decoded
		case ".wav":
			decoded, err := wav.DecodeWithSampleRate(rate, reader)
			if err != nil {
				return nil, fmt.Errorf("failed to decode WAV sound effect %s: %w", file, err)
			}
			stream = decoded
		case ".au":
			decoded, err := au.DecodeAU(reader)
			if err != nil {
				return nil, fmt.Errorf("failed to decode AU sound effect %s: %w", file, err)
			}
			stream = audio.Resample(decoded, decoded.Length(), decoded.SampleRate(), rate)
		}

		player, err := am.context.NewPlayer(stream)
		if err != nil {
			return nil, fmt.Errorf("failed to create audio player for %s: %w", file, err)
		}
		return player, nil
	}
	return nil, fmt.Errorf("sound effect %q not found in %s", name, am.dir)
}

func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
