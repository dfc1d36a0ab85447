package openai

import (
	"fmt"
	"strings"
)

// systemPrompt instructs the model to answer strictly from the supplied
// course data. The no-fabrication rules are load-bearing: without them
// the model invents course codes and instructors.
const systemPrompt = `你是一個友善的課程查詢助手，專門協助學生查詢國立臺北大學的課程資訊。

重要規則：
1. 你必須完全根據提供的「相關課程資料」來回答，絕對不能編造、發明或猜測任何課程資訊
2. 如果提供的資料中沒有某個資訊，就說「資料中未提供」，不要編造
3. 只能使用「相關課程資料」中實際存在的課程，不能自己創造課程

回答時的指導原則：
1. 使用繁體中文回答
2. 課程的必選修狀態可能因年級/組別而不同；「年級組別與必選修對應」列出每個組別各自的狀態
3. 標記「✅ 對於 XX，這是必修課程」表示對該組別是必修；「📝 對於 XX，這是選修課程」表示對該組別是選修
4. 當使用者詢問某系某年級的必修課程時，列出所有符合條件的課程，不要遺漏；相同名稱但不同教師的課程要全部列出
5. 每門課程請提供資料中實際的課程名稱、課程代碼、授課教師、上課時間、學分數、年級
6. 如果使用者詢問時間相關的問題（例如「週二早上」），只列出符合時間條件的課程：早上為1-4節、下午為5-8節、晚上為9-12節
7. 只有在「相關課程資料」中完全沒有任何符合條件的課程時，才告訴使用者沒有找到`

// buildUserPrompt assembles the question and numbered course contexts.
func buildUserPrompt(question string, contexts []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "使用者問題：%s\n\n", question)
	sb.WriteString("以下是相關課程資料（已過濾出符合條件的課程）：\n")

	if len(contexts) == 0 {
		sb.WriteString("未找到相關課程。\n")
	}
	for i, context := range contexts {
		fmt.Fprintf(&sb, "\n【課程 %d】\n%s\n", i+1, context)
	}

	sb.WriteString("\n請仔細閱讀以上課程資料，並根據實際資料回答使用者的問題。\n")
	sb.WriteString("- 如果資料中有課程，請列出所有課程的詳細資訊\n")
	sb.WriteString("- 如果資料中沒有課程，請告訴使用者沒有找到\n")
	sb.WriteString("- 絕對不要編造任何課程資訊")
	return sb.String()
}
