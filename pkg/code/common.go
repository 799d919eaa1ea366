package code

var (
	Success               = NewSuss(1, lang{en: "Success", zh_cn: "成功"})
	SuccessCreate         = NewSuss(2, lang{en: "Created successfully", zh_cn: "创建成功"})
	SuccessUpdate         = NewSuss(3, lang{en: "Updated successfully", zh_cn: "更新成功"})
	SuccessDelete         = NewSuss(4, lang{en: "Deleted successfully", zh_cn: "删除成功"})
	SuccessPasswordUpdate = NewSuss(5, lang{en: "Password updated", zh_cn: "密码修改成功"})
	SuccessLogout         = NewSuss(6, lang{en: "Logged out", zh_cn: "已退出登录"})
	SuccessResetIssued    = NewSuss(7, lang{en: "Reset token issued", zh_cn: "重置凭证已生成"})

	Failed                    = NewError(400, lang{en: "Failed", zh_cn: "失败"})
	ErrorNotUserAuthToken     = NewError(401, lang{en: "Authentication token missing", zh_cn: "缺少用户认证 Token"})
	ErrorInvalidUserAuthToken = NewError(402, lang{en: "Authentication token invalid or expired", zh_cn: "用户认证 Token 无效或已过期"})
	ErrorForbidden            = NewError(403, lang{en: "Forbidden", zh_cn: "无权访问"})
	ErrorNotFoundAPI          = NewError(404, lang{en: "API not found", zh_cn: "接口不存在"})
	ErrorInvalidParams        = NewError(405, lang{en: "Invalid parameters", zh_cn: "参数错误"})
	ErrorNotFound             = NewError(406, lang{en: "Resource not found", zh_cn: "资源不存在"})
	ErrorTooManyRequests      = NewError(429, lang{en: "Too many requests", zh_cn: "请求过多"})
	ErrorServerInternal       = NewError(500, lang{en: "Internal server error", zh_cn: "服务器内部错误"})
	ErrorDBQuery              = NewError(501, lang{en: "Database query failed", zh_cn: "数据库查询失败"})
	ErrorTokenGenerate        = NewError(502, lang{en: "Token generation failed", zh_cn: "Token 生成失败"})
	ErrorWriteBusy            = NewError(503, lang{en: "Too many pending writes, retry later", zh_cn: "写入繁忙，请稍后重试"})

	ErrorUserRegisterIsDisable   = NewError(1001, lang{en: "Registration is disabled", zh_cn: "注册已关闭"})
	ErrorUserAlreadyExists       = NewError(1002, lang{en: "Username already exists", zh_cn: "用户名已存在"})
	ErrorUserEmailAlreadyExists  = NewError(1003, lang{en: "Email already registered", zh_cn: "邮箱已注册"})
	ErrorUserLoginPasswordFailed = NewError(1004, lang{en: "Wrong username or password", zh_cn: "用户名或密码错误"})
	ErrorUserNotFound            = NewError(1005, lang{en: "User not found", zh_cn: "用户不存在"})
	ErrorUserOldPasswordFailed   = NewError(1006, lang{en: "Old password is incorrect", zh_cn: "旧密码错误"})
	ErrorUserPasswordNotMatch    = NewError(1007, lang{en: "Passwords do not match", zh_cn: "两次输入的密码不一致"})
	ErrorPasswordNotValid        = NewError(1008, lang{en: "Password is not valid", zh_cn: "密码不合法"})
	ErrorUserUsernameNotValid    = NewError(1009, lang{en: "Username may only contain letters, digits and underscores (3-32)", zh_cn: "用户名只能包含字母、数字和下划线（3-32位）"})
	ErrorUserRegister            = NewError(1010, lang{en: "Registration failed", zh_cn: "注册失败"})
	ErrorResetTokenInvalid       = NewError(1011, lang{en: "Reset token is invalid or expired", zh_cn: "重置凭证无效或已过期"})
	ErrorEmailNotRegistered      = NewError(1012, lang{en: "Email is not registered", zh_cn: "邮箱未注册"})

	ErrorNoteNotFound        = NewError(2001, lang{en: "Note not found", zh_cn: "笔记不存在"})
	ErrorNoteForbidden       = NewError(2002, lang{en: "Note belongs to another user", zh_cn: "笔记属于其他用户"})
	ErrorNoteInvalidOrder    = NewError(2003, lang{en: "Order is out of range", zh_cn: "排序位置超出范围"})
	ErrorNoteInvalidPosition = NewError(2004, lang{en: "Position is not valid", zh_cn: "坐标不合法"})

	ErrorTagNotFound      = NewError(3001, lang{en: "Tag not found", zh_cn: "标签不存在"})
	ErrorTagAlreadyExists = NewError(3002, lang{en: "Tag already exists", zh_cn: "标签已存在"})
	ErrorTagReadOnly      = NewError(3003, lang{en: "System tags cannot be modified", zh_cn: "系统标签不可修改"})
)
