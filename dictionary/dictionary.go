// Package dictionary ships the bundled fallback translations for common
// UI phrases. It is consulted when no translation memory entry exists and
// no provider is configured (or a provider batch failed), so the tool
// degrades gracefully instead of aborting.
package dictionary

// byLang maps language code -> English text -> translation.
// Korean carries the largest set; other languages cover the core menu
// vocabulary only. Anything missing falls through to "untranslated".
var byLang = map[string]map[string]string{
	"ko": {
		"A powerful Copilot replacement that can suggest changes across multiple lines.": "여러 줄에 걸쳐 변경 사항을 제안할 수 있는 강력한 Copilot 대체품입니다.",
		"If on, none of your code will be stored by us.":                                 "켜면 귀하의 코드는 저희 측에 저장되지 않습니다.",
		"Enable or disable Cursor Tab suggestions in comments":                           "주석에서 Cursor Tab 제안 활성화 또는 비활성화",
		"Auto-scroll to bottom":                                                          "자동으로 맨 아래로 스크롤",
		"Allow Agent to run tools without asking for confirmation":                       "확인 요청 없이 에이전트가 도구를 실행하도록 허용",
		"Tab to import necessary dependencies":                                           "탭으로 필요한 종속성 가져오기",
		"Command allowlist":                                                              "명령 허용 목록",
		"Delete file protection":                                                         "파일 삭제 보호",
		"Privacy mode":                                                                   "개인 정보 보호 모드",
		"Enable auto-run mode":                                                           "자동 실행 모드 활성화",
		"Cursor Settings":                                                                "Cursor 설정",
		"Cursor Tab":                                                                     "Cursor 탭",
		"Account":                                                                        "계정",
		"Features":                                                                       "기능",
		"Models":                                                                         "모델",
		"Rules":                                                                          "규칙",
		"General":                                                                        "일반",
		"VS Code Import":                                                                 "VS Code 가져오기",
		"Appearance":                                                                     "외관",
		"Chat":                                                                           "채팅",
		"File":                                                                           "파일",
		"Edit":                                                                           "편집",
		"Selection":                                                                      "선택 영역",
		"View":                                                                           "보기",
		"Go":                                                                             "이동",
		"Run":                                                                            "실행",
		"Terminal":                                                                       "터미널",
		"Help":                                                                           "도움말",
		"Open File":                                                                      "파일 열기",
		"New File":                                                                       "새 파일",
		"New Window":                                                                     "새 창",
		"Open Folder":                                                                    "폴더 열기",
		"Save":                                                                           "저장",
		"Save As...":                                                                     "다른 이름으로 저장...",
		"Close":                                                                          "닫기",
		"Close All":                                                                      "모두 닫기",
		"Cut":                                                                            "잘라내기",
		"Copy":                                                                           "복사",
		"Paste":                                                                          "붙여넣기",
		"Find":                                                                           "찾기",
		"Replace":                                                                        "바꾸기",
		"Go to Line":                                                                     "줄 이동",
		"Format Document":                                                                "문서 서식 지정",
		"Toggle Terminal":                                                                "터미널 토글",
		"Toggle Sidebar":                                                                 "사이드바 토글",
		"Command Palette":                                                                "명령 팔레트",
		"Quick Open":                                                                     "빠른 열기",
		"Explorer":                                                                       "탐색기",
		"Search":                                                                         "검색",
		"Source Control":                                                                 "소스 제어",
		"Run and Debug":                                                                  "실행 및 디버그",
		"Extensions":                                                                     "확장",
		"Problems":                                                                       "문제",
		"Output":                                                                         "출력",
		"Debug Console":                                                                  "디버그 콘솔",
		"Settings":                                                                       "설정",
		"Preferences":                                                                    "기본 설정",
		"Keyboard Shortcuts":                                                             "바로 가기 키",
		"Color Theme":                                                                    "색 테마",
		"Zoom In":                                                                        "확대",
		"Zoom Out":                                                                       "축소",
		"Full Screen":                                                                    "전체 화면",
		"Welcome":                                                                        "시작",
		"Documentation":                                                                  "설명서",
		"Release Notes":                                                                  "릴리스 정보",
		"Check for Updates":                                                              "업데이트 확인",
		"About":                                                                          "정보",
	},
	"ja": {
		"File":      "ファイル",
		"Edit":      "編集",
		"Selection": "選択",
		"View":      "表示",
		"Go":        "移動",
		"Run":       "実行",
		"Terminal":  "ターミナル",
		"Help":      "ヘルプ",
		"Save":      "保存",
		"Close":     "閉じる",
		"Find":      "検索",
		"Replace":   "置換",
		"Settings":  "設定",
		"Explorer":  "エクスプローラー",
		"Search":    "検索",
	},
	"zh": {
		"File":      "文件",
		"Edit":      "编辑",
		"Selection": "选择",
		"View":      "查看",
		"Go":        "转到",
		"Run":       "运行",
		"Terminal":  "终端",
		"Help":      "帮助",
		"Save":      "保存",
		"Close":     "关闭",
		"Find":      "查找",
		"Replace":   "替换",
		"Settings":  "设置",
		"Explorer":  "资源管理器",
		"Search":    "搜索",
	},
}

// Lookup returns the bundled translation for text in the given language.
// The second return value reports whether a translation exists.
func Lookup(lang, text string) (string, bool) {
	m, ok := byLang[lang]
	if !ok {
		return "", false
	}
	v, ok := m[text]
	return v, ok
}

// HasLanguage reports whether any bundled entries exist for a language.
func HasLanguage(lang string) bool {
	return len(byLang[lang]) > 0
}
